package shared

import (
	"strings"
)

// NormalizeAccountName accepts "acme", "acme.lacework.net" or "https://acme.lacework.net/"
// and returns the bare account name.
func NormalizeAccountName(account string) string {
	account = strings.TrimSpace(account)
	account = strings.TrimPrefix(account, "https://")
	account = strings.TrimPrefix(account, "http://")
	account = strings.TrimSuffix(account, "/")
	account = strings.TrimSuffix(account, "."+LaceworkDomain)
	return strings.ToLower(account)
}
