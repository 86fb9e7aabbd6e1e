package parse

import (
	"fmt"
	"regexp"
	"strconv"
)

// OrderPrefix is the prefix every work-order number carries.
const OrderPrefix = "OS"

var orderNumberRe = regexp.MustCompile(`(?i)^\s*OS\s*[-/ ]\s*(\d{4})\s*[-/ ]\s*(\d+)\s*$`)

// OrderNumber holds the structured data parsed from a work-order number.
type OrderNumber struct {
	Year int
	Seq  int
}

// String renders the canonical form, e.g. "OS-2024-007".
func (n OrderNumber) String() string {
	return FormatOrderNumber(n.Year, n.Seq)
}

// FormatOrderNumber renders a work-order number with a zero-padded sequence.
func FormatOrderNumber(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%03d", OrderPrefix, year, seq)
}

// ParseOrderNumber extracts year and sequence from a work-order number. It
// accepts lower case and "/" or space separators, as typed by hand.
func ParseOrderNumber(raw string) (OrderNumber, error) {
	m := orderNumberRe.FindStringSubmatch(raw)
	if m == nil {
		return OrderNumber{}, fmt.Errorf("unable to parse order number: %q", raw)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return OrderNumber{}, fmt.Errorf("invalid year in order number %q: %w", raw, err)
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return OrderNumber{}, fmt.Errorf("invalid sequence in order number %q: %w", raw, err)
	}
	if seq == 0 {
		return OrderNumber{}, fmt.Errorf("order number %q has no sequence", raw)
	}
	return OrderNumber{Year: year, Seq: seq}, nil
}

// NextOrderNumber returns the number that follows the highest sequence used in
// year among existing. Numbers that do not parse or belong to another year are
// ignored.
func NextOrderNumber(year int, existing []string) string {
	maxSeq := 0
	for _, raw := range existing {
		n, err := ParseOrderNumber(raw)
		if err != nil || n.Year != year {
			continue
		}
		if n.Seq > maxSeq {
			maxSeq = n.Seq
		}
	}
	return FormatOrderNumber(year, maxSeq+1)
}
