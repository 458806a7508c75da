package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLoginToken(t *testing.T, link string) string {
	t.Helper()
	idx := strings.LastIndex(link, "/login/")
	require.GreaterOrEqual(t, idx, 0)
	raw, err := base64.StdEncoding.DecodeString(link[idx+len("/login/"):])
	require.NoError(t, err)
	return string(raw)
}

func TestBuildSigningLink(t *testing.T) {
	t.Run("DirectModeWithContact", func(t *testing.T) {
		link, err := BuildSigningLink(SigningLinkDirect, "https://app.x.com", "doc-1", "a@x.com", 7)
		require.NoError(t, err)
		assert.Equal(t, "https://app.x.com/load/recipientSignPdf/doc-1/7", link)
	})

	t.Run("DirectModeWithoutContactFallsBackToToken", func(t *testing.T) {
		link, err := BuildSigningLink(SigningLinkDirect, "https://app.x.com", "doc-1", "a@x.com", 0)
		require.NoError(t, err)
		assert.Equal(t, "doc-1/a@x.com", decodeLoginToken(t, link))
	})

	t.Run("LoginTokenModeIncludesContact", func(t *testing.T) {
		link, err := BuildSigningLink(SigningLinkLoginToken, "https://app.x.com", "doc-1", "a@x.com", 7)
		require.NoError(t, err)
		assert.Equal(t, "doc-1/a@x.com/7", decodeLoginToken(t, link))
	})

	t.Run("TrailingSlashOnHost", func(t *testing.T) {
		link, err := BuildSigningLink(SigningLinkDirect, "https://app.x.com/", "doc-1", "a@x.com", 7)
		require.NoError(t, err)
		assert.Equal(t, "https://app.x.com/load/recipientSignPdf/doc-1/7", link)
	})

	t.Run("RejectsEmptyHost", func(t *testing.T) {
		_, err := BuildSigningLink(SigningLinkDirect, "", "doc-1", "a@x.com", 7)
		assert.Error(t, err)
	})

	t.Run("RejectsSchemelessHost", func(t *testing.T) {
		_, err := BuildSigningLink(SigningLinkDirect, "app.x.com", "doc-1", "a@x.com", 7)
		assert.Error(t, err)
	})
}

func TestSigningLinkModeFromEnv(t *testing.T) {
	t.Run("DefaultsToDirect", func(t *testing.T) {
		t.Setenv("SIGNING_LINK_MODE", "")
		assert.Equal(t, SigningLinkDirect, SigningLinkModeFromEnv())
	})

	t.Run("LoginToken", func(t *testing.T) {
		t.Setenv("SIGNING_LINK_MODE", "login-token")
		assert.Equal(t, SigningLinkLoginToken, SigningLinkModeFromEnv())
	})

	t.Run("UnknownValueFallsBackToDirect", func(t *testing.T) {
		t.Setenv("SIGNING_LINK_MODE", "something-else")
		assert.Equal(t, SigningLinkDirect, SigningLinkModeFromEnv())
	})
}
