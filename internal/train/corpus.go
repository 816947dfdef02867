package train

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Example is one labeled training description.
type Example struct {
	Description string
	Category    string
	Priority    string
}

// Categories and Priorities enumerate the label sets of the built-in corpus.
var (
	Categories = []string{"Network", "Access", "Hardware", "Software", "Storage", "System"}
	Priorities = []string{"Critical", "High", "Medium", "Low"}
)

// DefaultCorpus returns the fixed 30-example training set: five descriptions
// per category with hand-assigned priorities.
func DefaultCorpus() []Example {
	return []Example{
		{"Cannot connect to company network after moving to new floor", "Network", "High"},
		{"WiFi connection keeps dropping intermittently", "Network", "Medium"},
		{"Internet speed is very slow affecting work productivity", "Network", "Medium"},
		{"VPN connection fails when I try to access remote resources", "Network", "High"},
		{"Network cable not detected by laptop", "Network", "High"},

		{"Unable to login to company portal after password reset", "Access", "High"},
		{"Cannot access shared drive on file server", "Access", "High"},
		{"Need permissions to access project directory", "Access", "Medium"},
		{"Locked out of email account after failed login attempts", "Access", "High"},
		{"SSO authentication not working for enterprise apps", "Access", "High"},

		{"Laptop screen is flickering constantly", "Hardware", "Medium"},
		{"Mouse and keyboard not responding properly", "Hardware", "Medium"},
		{"Printer not printing from my computer", "Hardware", "Low"},
		{"External hard drive not recognized by system", "Hardware", "Medium"},
		{"Monitor display showing black screen", "Hardware", "High"},

		{"Microsoft Word crashes when opening large documents", "Software", "Medium"},
		{"Excel formulas not calculating correctly", "Software", "Medium"},
		{"Outlook email client freezes frequently", "Software", "Medium"},
		{"Adobe Reader PDF files not opening properly", "Software", "Low"},
		{"Slack notifications not working as expected", "Software", "Low"},

		{"Disk space critically low on C drive", "Storage", "High"},
		{"Cannot save files to network backup", "Storage", "High"},
		{"Data loss after system crash yesterday", "Storage", "Critical"},
		{"Backup job failed for critical project files", "Storage", "High"},
		{"Storage quota exceeded on cloud drive", "Storage", "High"},

		{"Computer running extremely slow and sluggish", "System", "High"},
		{"Fan making unusual noise and system overheating", "System", "High"},
		{"System restart required after each application", "System", "Medium"},
		{"Memory usage at 100 percent constantly", "System", "High"},
		{"System boots very slowly taking 10 minutes", "System", "High"},
	}
}

// LoadCorpusCSV reads a replacement corpus from a CSV file with the columns
// description, category, priority (header row required, any order).
func LoadCorpusCSV(path string) ([]Example, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"description", "category", "priority"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("corpus header missing %q column", required)
		}
	}

	var examples []Example
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus row: %w", err)
		}
		ex := Example{
			Description: strings.TrimSpace(record[cols["description"]]),
			Category:    strings.TrimSpace(record[cols["category"]]),
			Priority:    strings.TrimSpace(record[cols["priority"]]),
		}
		if ex.Description == "" || ex.Category == "" || ex.Priority == "" {
			continue
		}
		examples = append(examples, ex)
	}
	if len(examples) == 0 {
		return nil, errors.New("corpus contains no usable rows")
	}
	return examples, nil
}
