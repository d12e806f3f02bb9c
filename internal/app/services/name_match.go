package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// nicknames maps a canonical first name to the short forms people commonly go by.
// Two first names are equivalent when they appear in the same entry, either as the
// canonical name or as one of its variants.
var nicknames = map[string][]string{
	"alexander":   {"alex", "xander", "al", "sasha"},
	"alexandra":   {"alex", "alexa", "lexi", "sandra", "sasha"},
	"andrew":      {"andy", "drew"},
	"anthony":     {"tony"},
	"benjamin":    {"ben", "benny", "benji"},
	"christopher": {"chris", "topher", "kit"},
	"daniel":      {"dan", "danny"},
	"david":       {"dave", "davey"},
	"edward":      {"ed", "eddie", "ted", "ned"},
	"elizabeth":   {"liz", "lizzie", "beth", "betsy", "betty", "eliza"},
	"james":       {"jim", "jimmy", "jamie"},
	"jennifer":    {"jen", "jenny"},
	"john":        {"jack", "johnny", "jon"},
	"jonathan":    {"jon", "jonny", "nathan"},
	"joseph":      {"joe", "joey"},
	"katherine":   {"kate", "katie", "kathy", "kat", "kay"},
	"margaret":    {"maggie", "meg", "peggy", "greta"},
	"matthew":     {"matt", "matty"},
	"michael":     {"mike", "mikey", "mick"},
	"nicholas":    {"nick", "nicky"},
	"patricia":    {"pat", "patty", "trish"},
	"rebecca":     {"becca", "becky"},
	"richard":     {"rich", "rick", "ricky", "dick"},
	"robert":      {"rob", "bob", "bobby", "robbie", "bert"},
	"samuel":      {"sam", "sammy"},
	"stephen":     {"steve", "stevie"},
	"steven":      {"steve", "stevie"},
	"thomas":      {"tom", "tommy"},
	"timothy":     {"tim", "timmy"},
	"william":     {"will", "bill", "billy", "willy", "liam"},
	"zachary":     {"zach", "zack"},
}

// nameGroups maps every name in the table to the canonical entries it belongs to.
// A nickname such as "steve" can belong to more than one entry.
var nameGroups = buildNameGroups(nicknames)

func buildNameGroups(table map[string][]string) map[string][]string {
	groups := make(map[string][]string, len(table)*4)
	for canonical, variants := range table {
		groups[canonical] = append(groups[canonical], canonical)
		for _, v := range variants {
			groups[v] = append(groups[v], canonical)
		}
	}
	return groups
}

// normalizeName folds case, composes Unicode and collapses whitespace so that
// "  JOSÉ " and "josé" compare equal
func normalizeName(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// sameNicknameGroup reports whether a and b are listed in the same nickname entry
func sameNicknameGroup(a, b string) bool {
	for _, canonical := range nameGroups[a] {
		if b == canonical {
			return true
		}
		for _, v := range nicknames[canonical] {
			if b == v {
				return true
			}
		}
	}
	return false
}

// VerifyNameMatch decides whether the person claimFirst claimLast may claim a
// placeholder profile named candFirst candLast. Last names must match exactly after
// normalization. First names match when equal, when one is a prefix of the other,
// or when both appear in the same nickname entry.
func VerifyNameMatch(claimFirst, claimLast, candFirst, candLast string) bool {
	cf, cl := normalizeName(claimFirst), normalizeName(claimLast)
	pf, pl := normalizeName(candFirst), normalizeName(candLast)

	// A blank name never matches, not even another blank one.
	if cf == "" || cl == "" || pf == "" || pl == "" {
		return false
	}

	if cf == pf && cl == pl {
		return true
	}

	if cl != pl {
		return false
	}

	if strings.HasPrefix(cf, pf) || strings.HasPrefix(pf, cf) {
		return true
	}

	return sameNicknameGroup(cf, pf)
}
