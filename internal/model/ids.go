package model

import (
	"regexp"
	"strconv"
)

const (
	TaskIDPrefix     = "T"
	EmployeeIDPrefix = "E"
	// legacyEmployeeIDPrefix appears in records written by the older user screens.
	legacyEmployeeIDPrefix = "EMP"
)

// NextID scans ids of the form <prefix><number> and returns <prefix><max+1>.
// IDs with any other shape are ignored.
func NextID(prefix string, ids []string) string {
	return prefix + strconv.Itoa(maxSuffix(prefix, ids)+1)
}

// NextTaskID returns the next T<number> identifier.
func NextTaskID(ids []string) string {
	return NextID(TaskIDPrefix, ids)
}

// NextEmployeeID returns the next E<number> identifier. Legacy EMP<number>
// IDs count toward the maximum so a new ID never reuses an old number.
func NextEmployeeID(ids []string) string {
	n := max(maxSuffix(EmployeeIDPrefix, ids), maxSuffix(legacyEmployeeIDPrefix, ids))
	return EmployeeIDPrefix + strconv.Itoa(n+1)
}

func maxSuffix(prefix string, ids []string) int {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d+)$`)
	highest := 0
	for _, id := range ids {
		m := pattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}
