package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const closingEntryPrefix = "YE-CLOSE-"

// NewEntryNumber returns JE-YYYYMMDD-XXXXXX, the suffix being six upper-case hex characters of a fresh UUID.
func NewEntryNumber(entryDate time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("JE-%s-%s", entryDate.Format("20060102"), strings.ToUpper(hex[:6]))
}

// ClosingEntryNumber is the deterministic number of a fiscal year's closing entry.
// Posting it twice trips the entry number unique index.
func ClosingEntryNumber(year int) string {
	return fmt.Sprintf("%s%04d", closingEntryPrefix, year)
}
