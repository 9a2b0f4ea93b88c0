package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"krpic_backend/models"

	"gorm.io/gorm"
)

// categoryCodes maps course category slugs to the 3-letter code embedded in
// certificate numbers. Unrecognized categories fall back to EDU.
var categoryCodes = map[string]string{
	"psychology":  "PSY",
	"counseling":  "CNS",
	"art-therapy": "ART",
	"coaching":    "COA",
	"parenting":   "PAR",
	"welfare":     "WEL",
}

const defaultCategoryCode = "EDU"

// CertificateCategoryCode resolves the category slug to its certificate code.
func CertificateCategoryCode(category string) string {
	if code, ok := categoryCodes[strings.ToLower(strings.TrimSpace(category))]; ok {
		return code
	}
	return defaultCategoryCode
}

// GenerateCertificateNumber produces the next number in the form
// KRPIC-{year}-{categoryCode}-{5-digit sequence}. The sequence is one past
// the count of issued numbers sharing the prefix. Concurrent completions can
// read the same count, so callers must rely on the unique index on
// certificate_number and retry on conflict.
func GenerateCertificateNumber(db *gorm.DB, category string) (string, error) {
	prefix := fmt.Sprintf("KRPIC-%d-%s-", time.Now().Year(), CertificateCategoryCode(category))

	var count int64
	if err := db.Model(&models.Enrollment{}).
		Where("certificate_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// verificationAlphabet excludes visually confusable characters (0/O, 1/I/L).
const verificationAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateVerificationCode returns a 12-character public code grouped with
// hyphens every 4 characters, e.g. "7XK2-MNP9-QRTV". Purely random; the
// unique index on the column catches the (vanishingly rare) collision.
func GenerateVerificationCode() string {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(verificationAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		sb.WriteByte(verificationAlphabet[n.Int64()])
	}
	return sb.String()
}
