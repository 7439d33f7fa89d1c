package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

const idLength = 16

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	slugIllegal   = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
)

// Slugify lower-cases name, turns whitespace runs into hyphens and drops
// everything that is not a letter, digit, underscore or hyphen.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return slugIllegal.ReplaceAllString(s, "")
}

// AssetID is the global id of an asset: the same supplier and asset name
// always hash to the same id regardless of which company owns it.
func AssetID(supplierID, assetName string) string {
	return shortHash(supplierID + "-" + Slugify(assetName))
}

// CompanyAssetID identifies one company's holding of an asset.
func CompanyAssetID(companyID, assetID string) string {
	return shortHash(companyID + "-" + assetID)
}

func shortHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:idLength]
}
