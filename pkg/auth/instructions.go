package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAuthorizationGuide prints the steps that turn an authorization URL into a code
func ShowAuthorizationGuide(w io.Writer, authURL, redirectURI string) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "INSTAGRAM AUTHORIZATION")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. Open this URL in a browser and log in with the Instagram account:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "   %s\n", authURL)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "2. Approve the requested permissions.")
	fmt.Fprintf(w, "3. You are redirected to %s?code=...\n", redirectURI)
	fmt.Fprintln(w, "   Copy the value of the code parameter. Instagram appends #_ to it;")
	fmt.Fprintln(w, "   that suffix is not part of the code.")
	fmt.Fprintln(w, "4. Run: igoauth exchange <code>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Codes are single use and expire after about an hour.")
}

// CleanCode strips the "#_" fragment Instagram appends to redirected codes
func CleanCode(code string) string {
	code = strings.TrimSpace(code)
	return strings.TrimSuffix(code, "#_")
}
