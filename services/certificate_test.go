package services

import (
	"fmt"
	"testing"
	"time"

	"krpic_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateCategoryCode(t *testing.T) {
	assert.Equal(t, "PSY", CertificateCategoryCode("psychology"))
	assert.Equal(t, "CNS", CertificateCategoryCode("counseling"))
	assert.Equal(t, "PSY", CertificateCategoryCode(" Psychology "))

	// Unrecognized categories fall back to EDU.
	assert.Equal(t, "EDU", CertificateCategoryCode("baking"))
	assert.Equal(t, "EDU", CertificateCategoryCode(""))
}

func TestGenerateCertificateNumber_CountsExistingPrefix(t *testing.T) {
	db := setupTestDB(t)
	year := time.Now().Year()

	first, err := GenerateCertificateNumber(db, "counseling")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("KRPIC-%d-CNS-00001", year), first)

	// Seed two issued numbers under the same prefix; the next is 00003.
	user := seedUser(t, db, "테스트", "cert@example.com")
	course := seedCourse(t, db, "상담 과정", "cns-course", "counseling", 10000, 100)
	for i := 1; i <= 2; i++ {
		number := fmt.Sprintf("KRPIC-%d-CNS-%05d", year, i)
		enrollment := models.Enrollment{
			UserID:            user.ID + uint(i), // distinct pairs for the unique index
			CourseID:          course.ID,
			Status:            models.EnrollmentStatusCompleted,
			CertificateNumber: &number,
		}
		require.NoError(t, db.Create(&enrollment).Error)
	}

	next, err := GenerateCertificateNumber(db, "counseling")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("KRPIC-%d-CNS-00003", year), next)

	// Other categories keep their own sequence.
	other, err := GenerateCertificateNumber(db, "psychology")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("KRPIC-%d-PSY-00001", year), other)
}

func TestGenerateVerificationCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := GenerateVerificationCode()
		assert.Regexp(t, `^[A-HJKMNP-Z2-9]{4}-[A-HJKMNP-Z2-9]{4}-[A-HJKMNP-Z2-9]{4}$`, code)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "L")
		seen[code] = true
	}
	// 50 draws from a 31^12 space never collide in practice.
	assert.Len(t, seen, 50)
}
