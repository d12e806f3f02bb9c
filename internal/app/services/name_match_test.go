package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyNameMatch(t *testing.T) {
	cases := []struct {
		name       string
		claimFirst string
		claimLast  string
		candFirst  string
		candLast   string
		want       bool
	}{
		{"nickname with same last name", "William", "Smith", "Will", "Smith", true},
		{"last name gate", "William", "Smith", "Will", "Jones", false},
		{"prefix rule", "Alex", "Lee", "Alexander", "Lee", true},
		{"different full names sharing a prefix", "Alexander", "Lee", "Alexandra", "Lee", false},
		{"exact match ignores case and spaces", "  ADA ", "lovelace", "ada", " Lovelace  ", true},
		{"nickname to canonical", "Bob", "Marley", "Robert", "Marley", true},
		{"sibling nicknames", "Bobby", "Marley", "Rob", "Marley", true},
		{"unrelated first names", "Margaret", "Hamilton", "Grace", "Hamilton", false},
		{"shared nickname does not join canonicals", "Steven", "Universe", "Stephen", "Universe", false},
		{"shared nickname matches both canonicals", "Steve", "Universe", "Stephen", "Universe", true},
		{"unicode composition", "José", "García", "José", "García", true},
		{"case folding beyond ASCII", "STRASSE", "Ölund", "straße", "ölund", true},
		{"empty first name never matches", "", "Smith", "Will", "Smith", false},
		{"empty names never match", "", "", "", "", false},
		{"whitespace-only last name", "Will", "  ", "Will", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyNameMatch(tc.claimFirst, tc.claimLast, tc.candFirst, tc.candLast))
		})
	}
}

func TestVerifyNameMatch_NicknameTableIsSymmetric(t *testing.T) {
	for canonical, variants := range nicknames {
		group := append([]string{canonical}, variants...)
		for _, a := range group {
			for _, b := range group {
				assert.True(t, VerifyNameMatch(a, "Doe", b, "Doe"), "%s -> %s (%s)", a, b, canonical)
				assert.True(t, VerifyNameMatch(b, "Doe", a, "Doe"), "%s -> %s (%s)", b, a, canonical)
			}
		}
	}
}

func TestVerifyNameMatch_IsSymmetric(t *testing.T) {
	names := []string{"William", "Will", "Bill", "Alexander", "Alexandra", "Alex", "Sandra", "Steve", "Steven", "Stephen", "Kat", "Katherine", "Ed", "Eddie", "Teddy"}
	for _, a := range names {
		for _, b := range names {
			assert.Equal(t, VerifyNameMatch(a, "Kim", b, "Kim"), VerifyNameMatch(b, "Kim", a, "Kim"), "%s/%s", a, b)
		}
	}
}

func TestNicknameTableEntriesAreNormalized(t *testing.T) {
	for canonical, variants := range nicknames {
		assert.Equal(t, normalizeName(canonical), canonical)
		for _, v := range variants {
			assert.Equal(t, normalizeName(v), v)
			assert.NotEqual(t, canonical, v)
		}
	}
}
