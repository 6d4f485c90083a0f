package server

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"poolEngine/internal/guard"
)

type addLiquidityRequest struct {
	Provider string `json:"provider"`
	BaseIn   string `json:"base_in"`
	QuoteMax string `json:"quote_max"`
}

type addLiquidityResponse struct {
	QuoteIn      string `json:"quote_in"`
	SharesMinted string `json:"shares_minted"`
}

func (s *Server) handleAddLiquidity(c fiber.Ctx) error {
	var req addLiquidityRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidBody
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		return err
	}
	baseIn, err := parseAmount(req.BaseIn)
	if err != nil {
		return err
	}
	quoteMax, err := parseAmount(req.QuoteMax)
	if err != nil {
		return err
	}

	result, opErr := s.eng.AddLiquidity(provider, baseIn, quoteMax)
	s.recordOp("add_liquidity", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}

	s.logger.Debug("liquidity added",
		zap.String("provider", provider.Hex()),
		zap.String("shares_minted", result.SharesMinted.String()),
	)
	return c.JSON(addLiquidityResponse{
		QuoteIn:      result.QuoteIn.String(),
		SharesMinted: result.SharesMinted.String(),
	})
}

type removeLiquidityRequest struct {
	Provider string `json:"provider"`
	SharesIn string `json:"shares_in"`
}

type removeLiquidityResponse struct {
	BaseOut  string `json:"base_out"`
	QuoteOut string `json:"quote_out"`
}

func (s *Server) handleRemoveLiquidity(c fiber.Ctx) error {
	var req removeLiquidityRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidBody
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		return err
	}
	sharesIn, err := parseAmount(req.SharesIn)
	if err != nil {
		return err
	}

	result, opErr := s.eng.RemoveLiquidity(provider, sharesIn)
	s.recordOp("remove_liquidity", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}

	return c.JSON(removeLiquidityResponse{
		BaseOut:  result.BaseOut.String(),
		QuoteOut: result.QuoteOut.String(),
	})
}

type swapBaseRequest struct {
	Trader string `json:"trader"`
	BaseIn string `json:"base_in"`
}

type swapQuoteRequest struct {
	Trader  string `json:"trader"`
	QuoteIn string `json:"quote_in"`
}

func (s *Server) handleSwapBaseForQuote(c fiber.Ctx) error {
	var req swapBaseRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidBody
	}
	trader, err := parseAddress("trader", req.Trader)
	if err != nil {
		return err
	}
	baseIn, err := parseAmount(req.BaseIn)
	if err != nil {
		return err
	}

	quoteOut, opErr := s.eng.SwapBaseForQuote(trader, baseIn)
	s.recordOp("swap_base_for_quote", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}
	s.recordSwap("base", baseIn)

	return c.JSON(fiber.Map{"quote_out": quoteOut.String()})
}

func (s *Server) handleSwapQuoteForBase(c fiber.Ctx) error {
	var req swapQuoteRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidBody
	}
	trader, err := parseAddress("trader", req.Trader)
	if err != nil {
		return err
	}
	quoteIn, err := parseAmount(req.QuoteIn)
	if err != nil {
		return err
	}

	baseOut, opErr := s.eng.SwapQuoteForBase(trader, quoteIn)
	s.recordOp("swap_quote_for_base", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}
	s.recordSwap("quote", quoteIn)

	return c.JSON(fiber.Map{"base_out": baseOut.String()})
}

type adminRequest struct {
	Actor    string `json:"actor"`
	Identity string `json:"identity"`
	Role     string `json:"role"`
}

func (s *Server) handlePause(c fiber.Ctx) error {
	var req adminRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidBody
	}
	actor, err := parseAddress("actor", req.Actor)
	if err != nil {
		return err
	}

	opErr := s.eng.Pause(actor)
	s.recordOp("pause", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}
	return c.JSON(fiber.Map{"paused": true})
}

func (s *Server) handleUnpause(c fiber.Ctx) error {
	var req adminRequest
	if err := c.Bind().Body(&req); err != nil {
		return ErrInvalidBody
	}
	actor, err := parseAddress("actor", req.Actor)
	if err != nil {
		return err
	}

	opErr := s.eng.Unpause(actor)
	s.recordOp("unpause", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}
	return c.JSON(fiber.Map{"paused": false})
}

func (s *Server) handleGrant(c fiber.Ctx) error {
	actor, identity, role, err := parseRoleChange(c)
	if err != nil {
		return err
	}

	opErr := s.eng.GrantRole(actor, identity, role)
	s.recordOp("grant_role", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}
	return c.JSON(fiber.Map{"granted": string(role)})
}

func (s *Server) handleRevoke(c fiber.Ctx) error {
	actor, identity, role, err := parseRoleChange(c)
	if err != nil {
		return err
	}

	opErr := s.eng.RevokeRole(actor, identity, role)
	s.recordOp("revoke_role", opErr)
	if opErr != nil {
		return mapEngineError(opErr)
	}
	return c.JSON(fiber.Map{"revoked": string(role)})
}

func (s *Server) handlePoolState(c fiber.Ctx) error {
	reserveBase, reserveQuote := s.eng.Reserves()
	return c.JSON(fiber.Map{
		"reserve_base":  reserveBase.String(),
		"reserve_quote": reserveQuote.String(),
		"total_shares":  s.eng.TotalShares().String(),
		"paused":        s.eng.IsPaused(),
	})
}

func (s *Server) handleShares(c fiber.Ctx) error {
	identity, err := parseAddress("address", c.Params("address"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"address": identity.Hex(),
		"shares":  s.eng.SharesOf(identity).String(),
	})
}

func (s *Server) handleMemo(c fiber.Ctx) error {
	identity, err := parseAddress("address", c.Params("address"))
	if err != nil {
		return err
	}
	memo := s.eng.PendingMemo(identity)
	return c.JSON(fiber.Map{
		"address":        identity.Hex(),
		"shares_minted":  memo.SharesMinted.String(),
		"base_returned":  memo.BaseReturned.String(),
		"quote_returned": memo.QuoteReturned.String(),
	})
}

func (s *Server) handleCustody(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"base_custody":  s.eng.TotalBaseCustody().String(),
		"quote_custody": s.eng.TotalQuoteCustody().String(),
	})
}

func parseRoleChange(c fiber.Ctx) (common.Address, common.Address, guard.Role, error) {
	var req adminRequest
	if err := c.Bind().Body(&req); err != nil {
		return common.Address{}, common.Address{}, "", ErrInvalidBody
	}
	actor, err := parseAddress("actor", req.Actor)
	if err != nil {
		return common.Address{}, common.Address{}, "", err
	}
	identity, err := parseAddress("identity", req.Identity)
	if err != nil {
		return common.Address{}, common.Address{}, "", err
	}
	role := guard.Role(req.Role)
	if role != guard.RoleAdmin && role != guard.RolePauser {
		return common.Address{}, common.Address{}, "", ErrInvalidRole
	}
	return actor, identity, role, nil
}

func parseAddress(field, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, NewAddressRequired(field)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, NewInvalidAddress(field)
	}
	return common.HexToAddress(value), nil
}

func parseAmount(value string) (*big.Int, error) {
	if value == "" {
		return nil, ErrAmountRequired
	}
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, ErrInvalidAmountFormat
	}
	return amount, nil
}
