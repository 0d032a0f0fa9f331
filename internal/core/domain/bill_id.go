package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BillTypes lists the bill type codes used by the upstream.
var BillTypes = []string{"hr", "s", "hjres", "sjres", "hconres", "sconres", "hres", "sres"}

// BillID identifies a bill: congress number, type code and bill number.
type BillID struct {
	Congress int
	Type     string
	Number   string
}

// ParseBillID parses "118-hr-1234". Type codes are case-insensitive and
// dots are ignored, so "118-H.R.-1234" parses too.
func ParseBillID(s string) (BillID, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return BillID{}, fmt.Errorf("%w: bill id %q: want <congress>-<type>-<number>", ErrInvalidInput, s)
	}

	congress, err := strconv.Atoi(parts[0])
	if err != nil || congress <= 0 {
		return BillID{}, fmt.Errorf("%w: bill id %q: bad congress", ErrInvalidInput, s)
	}

	billType := NormaliseBillType(parts[1])
	if !IsBillType(billType) {
		return BillID{}, fmt.Errorf("%w: bill id %q: unknown type %q", ErrInvalidInput, s, parts[1])
	}

	number := strings.TrimSpace(parts[2])
	if n, err := strconv.Atoi(number); err != nil || n <= 0 {
		return BillID{}, fmt.Errorf("%w: bill id %q: bad number", ErrInvalidInput, s)
	}

	return BillID{Congress: congress, Type: billType, Number: number}, nil
}

// String returns the canonical "118-hr-1234" form.
func (id BillID) String() string {
	return fmt.Sprintf("%d-%s-%s", id.Congress, id.Type, id.Number)
}

// NormaliseBillType lowercases a type code and strips dots and spaces.
func NormaliseBillType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, " ", "")
}

// IsBillType reports whether s is a known bill type code.
func IsBillType(s string) bool {
	for _, t := range BillTypes {
		if t == s {
			return true
		}
	}
	return false
}

// CommitteeKey builds the snapshot key of a committee.
func CommitteeKey(chamber, code string) string {
	return strings.ToLower(chamber) + "/" + strings.ToLower(code)
}
