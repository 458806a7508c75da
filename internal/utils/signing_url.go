package utils

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// SigningLinkMode selects between the two signing-link schemes the
// platform has shipped: a direct contact-keyed path and an encoded
// login token embedding document id and email.
type SigningLinkMode string

const (
	SigningLinkDirect     SigningLinkMode = "direct"
	SigningLinkLoginToken SigningLinkMode = "login-token"
)

// SigningLinkModeFromEnv reads SIGNING_LINK_MODE, defaulting to the
// direct contact-keyed scheme.
func SigningLinkModeFromEnv() SigningLinkMode {
	if SigningLinkMode(os.Getenv("SIGNING_LINK_MODE")) == SigningLinkLoginToken {
		return SigningLinkLoginToken
	}
	return SigningLinkDirect
}

// BuildSigningLink builds the URL a signer follows to open the
// document. In direct mode a signer without a contact id degrades to
// the login-token form, since there is no contact to key the path on.
func BuildSigningLink(mode SigningLinkMode, host, documentID, email string, contactID uint) (string, error) {
	base, err := normalizeHost(host)
	if err != nil {
		return "", err
	}

	if mode == SigningLinkDirect && contactID != 0 {
		return fmt.Sprintf("%s/load/recipientSignPdf/%s/%d", base, documentID, contactID), nil
	}

	composite := documentID + "/" + email
	if contactID != 0 {
		composite = fmt.Sprintf("%s/%d", composite, contactID)
	}
	token := base64.StdEncoding.EncodeToString([]byte(composite))
	return fmt.Sprintf("%s/login/%s", base, token), nil
}

func normalizeHost(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("signing link host is required")
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid signing link host: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid signing link host: %s", host)
	}

	return strings.TrimRight(host, "/"), nil
}
