package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := CreateListingRequest{
		SellerWallet: "  7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU  ",
		Title:        " Moonpetal Potion ",
		Description:  "  A shimmering potion crafted from rare moonpetals.  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", req.SellerWallet)
	assert.Equal(t, "Moonpetal Potion", req.Title)
	assert.Equal(t, "A shimmering potion crafted from rare moonpetals.", req.Description)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateListingRequest{
		Title:       "Grimoire <script>alert('x')</script>",
		Description: "A rare spell book.",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Title, "&lt;script&gt;")
	assert.NotContains(t, req.Title, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	bio := "  Seller of rare oils  "
	req := UserUpsertRequest{
		WalletAddress: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Bio:           &bio,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Seller of rare oils", *req.Bio)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := UserUpsertRequest{
		WalletAddress: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.Username)
	assert.Nil(t, req.Bio)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	req := UserUpsertRequest{WalletAddress: "  x  "}
	SanitizeStruct(req) // value, not pointer
	assert.Equal(t, "  x  ", req.WalletAddress)
}

// --- custom validator tests ---

func TestSolanaAddrRegexp(t *testing.T) {
	valid := []string{
		"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		"11111111111111111111111111111111",
	}
	for _, addr := range valid {
		assert.True(t, solanaAddrRe.MatchString(addr), addr)
	}

	invalid := []string{
		"",
		"short",
		"0xDEADBEEF00000000000000000000000000000000",      // hex, not base58
		"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsUlll", // too long
		"contains spaces not allowed here padpadpad",
	}
	for _, addr := range invalid {
		assert.False(t, solanaAddrRe.MatchString(addr), addr)
	}
}
