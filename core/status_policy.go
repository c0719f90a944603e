package core

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// StatusPolicy describes which HTTP status codes count as success. The set of
// implementations is closed: exact code, half-open range, closed range and
// explicit set. A nil policy accepts every status.
type StatusPolicy interface {
	fmt.Stringer
	statusPolicy()
}

type exactStatus struct {
	code int
}

type statusRange struct {
	min       int
	max       int
	inclusive bool
}

type statusSet struct {
	codes []int
}

// StatusCode accepts only code.
func StatusCode(code int) StatusPolicy {
	return exactStatus{code: code}
}

// StatusRange accepts min <= code < max.
func StatusRange(min, max int) StatusPolicy {
	return statusRange{min: min, max: max}
}

// StatusClosedRange accepts min <= code <= max.
func StatusClosedRange(min, max int) StatusPolicy {
	return statusRange{min: min, max: max, inclusive: true}
}

// StatusCodeSet accepts any of codes.
func StatusCodeSet(codes ...int) StatusPolicy {
	unique := make([]int, 0, len(codes))
	for _, code := range codes {
		if !slices.Contains(unique, code) {
			unique = append(unique, code)
		}
	}
	sort.Ints(unique)
	return statusSet{codes: unique}
}

// StatusSuccess is the conventional 2xx policy.
func StatusSuccess() StatusPolicy {
	return StatusRange(200, 300)
}

// AcceptsStatus evaluates policy against code. A nil policy accepts any code.
func AcceptsStatus(policy StatusPolicy, code int) bool {
	switch typed := policy.(type) {
	case nil:
		return true
	case exactStatus:
		return code == typed.code
	case statusRange:
		if typed.inclusive {
			return code >= typed.min && code <= typed.max
		}
		return code >= typed.min && code < typed.max
	case statusSet:
		_, found := slices.BinarySearch(typed.codes, code)
		return found
	default:
		panic(fmt.Sprintf("core: unhandled status policy %T", policy))
	}
}

// CheckStatus returns StatusRejected when policy does not accept code.
func CheckStatus(policy StatusPolicy, code int) error {
	if AcceptsStatus(policy, code) {
		return nil
	}
	return StatusRejected(code)
}

func (exactStatus) statusPolicy() {}
func (statusRange) statusPolicy() {}
func (statusSet) statusPolicy()   {}

func (p exactStatus) String() string {
	return "status == " + strconv.Itoa(p.code)
}

func (p statusRange) String() string {
	if p.inclusive {
		return fmt.Sprintf("status in [%d, %d]", p.min, p.max)
	}
	return fmt.Sprintf("status in [%d, %d)", p.min, p.max)
}

func (p statusSet) String() string {
	parts := make([]string, 0, len(p.codes))
	for _, code := range p.codes {
		parts = append(parts, strconv.Itoa(code))
	}
	return "status in {" + strings.Join(parts, ", ") + "}"
}
