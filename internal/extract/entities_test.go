package extract

import (
	"encoding/json"
	"strings"
	"testing"
)

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestExtractLoginScenario(t *testing.T) {
	raw := "I am unable to login to the company portal. I get error code 0x80070005 after resetting my password on my laptop. This is urgent!"
	ents := Extract(raw)

	if !contains(ents.ErrorCodes, "0x80070005") {
		t.Errorf("error_codes %v missing 0x80070005", ents.ErrorCodes)
	}
	if !contains(ents.Devices, "laptop") {
		t.Errorf("devices %v missing laptop", ents.Devices)
	}
}

func TestExtractAllCategoriesPresent(t *testing.T) {
	ents := Extract("nothing interesting here")
	payload, err := json.Marshal(ents)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"usernames", "devices", "error_codes", "emails", "urls", "file_paths"} {
		if !strings.Contains(string(payload), `"`+key+`":[]`) {
			t.Errorf("payload %s missing empty %q list", payload, key)
		}
	}
}

func TestExtractUsernames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"mention", "please ping @jsmith about this", "jsmith"},
		{"assignment", "login failed for user=jdoe on the portal", "jdoe"},
		{"colon", "Username: alice.w cannot authenticate", "alice.w"},
		{"email local part", "contact john.smith@company.com for access", "john.smith"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ents := Extract(tc.raw)
			if !contains(ents.Usernames, tc.want) {
				t.Fatalf("usernames %v missing %q", ents.Usernames, tc.want)
			}
		})
	}
}

func TestExtractDevices(t *testing.T) {
	ents := Extract("The MacBook Pro cannot reach SERVER-01 or DEVICE-12345 via the router")
	for _, want := range []string{"macbook pro", "SERVER-01", "DEVICE-12345", "router"} {
		if !contains(ents.Devices, want) {
			t.Errorf("devices %v missing %q", ents.Devices, want)
		}
	}
}

func TestExtractErrorCodes(t *testing.T) {
	ents := Extract(`Request returned 503, then ERROR-404 and "access denied" with code 0xDEADBEEF`)
	for _, want := range []string{"503", "404", "access denied", "0xDEADBEEF"} {
		if !contains(ents.ErrorCodes, want) {
			t.Errorf("error_codes %v missing %q", ents.ErrorCodes, want)
		}
	}
}

func TestExtractEmailsAndURLs(t *testing.T) {
	ents := Extract("See https://wiki.corp.example/reset and mail helpdesk@corp.example.com")
	if !contains(ents.Emails, "helpdesk@corp.example.com") {
		t.Errorf("emails %v missing address", ents.Emails)
	}
	if !contains(ents.URLs, "https://wiki.corp.example/reset") {
		t.Errorf("urls %v missing link", ents.URLs)
	}
}

func TestExtractFilePaths(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"windows", `Cannot open C:\Users\jdoe\report.xlsx anymore`, `C:\Users\jdoe\report.xlsx`},
		{"posix", "The log lives in /var/log/syslog on that host", "/var/log/syslog"},
		{"network share", `Mapping \\fileserver\projects fails`, `\\fileserver\projects`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ents := Extract(tc.raw)
			if !contains(ents.FilePaths, tc.want) {
				t.Fatalf("file_paths %v missing %q", ents.FilePaths, tc.want)
			}
		})
	}
}

func TestExtractOrderAndDuplicates(t *testing.T) {
	ents := Extract("printer jammed, then the printer again")
	if len(ents.Devices) != 2 {
		t.Fatalf("devices %v, want two printer matches", ents.Devices)
	}
	if ents.Devices[0] != "printer" || ents.Devices[1] != "printer" {
		t.Fatalf("devices %v, want ordered duplicate matches", ents.Devices)
	}
}
