package config

import (
	"reflect"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"", 0, false},
		{"1700000000", 1700000000, false},
		{"2023-11-14T22:13:20Z", 1700000000, false},
		{"not-a-time", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseTimestamp(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseTimestamp(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimestamp(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseIdentities(t *testing.T) {
	got, err := ParseIdentities([]string{
		" 0x00000000000000000000000000000000000000a1 ",
		"",
		"0x00000000000000000000000000000000000000b2",
	})
	if err != nil {
		t.Fatalf("ParseIdentities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(got))
	}

	if _, err := ParseIdentities([]string{"nope"}); err == nil {
		t.Fatalf("expected error for invalid identity")
	}
}

func TestParseGenesis(t *testing.T) {
	accounts, err := ParseGenesis([]string{
		"0x00000000000000000000000000000000000000a1=1000:50000",
	})
	if err != nil {
		t.Fatalf("ParseGenesis: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Base.String() != "1000" || accounts[0].Quote.String() != "50000" {
		t.Fatalf("amounts = %s:%s", accounts[0].Base, accounts[0].Quote)
	}

	bad := []string{
		"0x00000000000000000000000000000000000000a1",
		"nope=1:2",
		"0x00000000000000000000000000000000000000a1=1",
		"0x00000000000000000000000000000000000000a1=x:2",
		"0x00000000000000000000000000000000000000a1=1:-2",
	}
	for _, entry := range bad {
		if _, err := ParseGenesis([]string{entry}); err == nil {
			t.Fatalf("expected error for %q", entry)
		}
	}
}

func TestSplitAndClean(t *testing.T) {
	got := splitAndClean("a, b,, c ")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitAndClean = %v, want %v", got, want)
	}
}
