package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildKeyBare(t *testing.T) {
	key := BuildKey("", "", "a.pdf")
	assert.Regexp(t, regexp.MustCompile(`^\d+-a\.pdf$`), key)
}

func TestBuildKeyWithFolder(t *testing.T) {
	key := BuildKey("pdfs", "", "a.pdf")
	assert.Regexp(t, regexp.MustCompile(`^pdfs/\d+-a\.pdf$`), key)
}

func TestBuildKeyWithOwner(t *testing.T) {
	key := BuildKey("", "u1", "a.pdf")
	assert.Regexp(t, regexp.MustCompile(`^u1/\d+-a\.pdf$`), key)
}

func TestBuildKeyWithFolderAndOwner(t *testing.T) {
	key := BuildKey("pdfs", "u1", "a.pdf")
	assert.Regexp(t, regexp.MustCompile(`^pdfs/u1/\d+-a\.pdf$`), key)
}

func TestBuildKeyDefaultFilename(t *testing.T) {
	key := BuildKey("", "", "")
	assert.Regexp(t, regexp.MustCompile(`^\d+-file$`), key)
}

func TestBuildKeySanitizesSlashes(t *testing.T) {
	key := BuildKey("", "", "a/b/c.pdf")
	assert.Regexp(t, regexp.MustCompile(`^\d+-a_b_c\.pdf$`), key)
}

func TestBuildKeyUniqueness(t *testing.T) {
	first := BuildKey("pdfs", "u1", "a.pdf")
	time.Sleep(2 * time.Millisecond)
	second := BuildKey("pdfs", "u1", "a.pdf")
	assert.NotEqual(t, first, second)
}
