package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"krpic_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certNumberPattern = regexp.MustCompile(`^KRPIC-\d{4}-[A-Z]{3}-\d{5}$`)

func TestCreateOrReuseEnrollment_CreatesSingleRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "김수진", "sujin@example.com")
	course := seedCourse(t, db, "아동심리상담사 과정", "child-counseling", "counseling", 50000, 600)

	firstID, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 50000)
	require.NoError(t, err)

	// Repeated calls for the same logical payment must reuse the same row.
	secondID, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 50000)
	require.NoError(t, err)
	thirdID, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Equal(t, firstID, thirdID)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, firstID).Error)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	assert.Equal(t, models.PaymentStatusPaid, enrollment.PaymentStatus)
	assert.Equal(t, 50000, enrollment.PaymentAmount)
}

func TestCreateOrReuseEnrollment_PromotesPendingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "이민호", "minho@example.com")
	course := seedCourse(t, db, "미술심리 과정", "art-course", "art-therapy", 80000, 1200)

	pending := models.Enrollment{
		UserID:        user.ID,
		CourseID:      course.ID,
		Status:        models.EnrollmentStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(&pending).Error)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 80000)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, id)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, id).Error)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	assert.Equal(t, models.PaymentStatusPaid, enrollment.PaymentStatus)
}

func TestCreateOrReuseEnrollment_DefaultsToCoursePrice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "박지영", "jiyoung@example.com")
	course := seedCourse(t, db, "코칭 입문", "coaching-intro", "coaching", 35000, 900)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 0)
	require.NoError(t, err)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, id).Error)
	assert.Equal(t, 35000, enrollment.PaymentAmount)
}

func TestCreateOrReuseEnrollment_CourseNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "최다은", "daeun@example.com")

	_, err := svc.CreateOrReuseEnrollment(user.ID, 999, 10000)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestRecordProgress_MaxPositionNeverRegresses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "정우성", "woosung@example.com")
	course := seedCourse(t, db, "부모교육 과정", "parenting-course", "parenting", 45000, 100)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 45000)
	require.NoError(t, err)

	// Out-of-order reports from seeking back and multiple tabs.
	for _, report := range []int{50, 30, 80, 20} {
		require.NoError(t, svc.RecordProgress(user.ID, id, report, report, 100))
	}

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, id).Error)
	assert.Equal(t, 80, enrollment.MaxWatchedPosition)
	assert.Equal(t, 80, enrollment.WatchedSeconds)
	assert.Equal(t, 20, enrollment.LastWatchedPosition) // last-writer-wins
	assert.Equal(t, 100, enrollment.VideoDurationSeconds)
}

func TestRecordProgress_OwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	owner := seedUser(t, db, "한소희", "sohee@example.com")
	intruder := seedUser(t, db, "외부인", "other@example.com")
	course := seedCourse(t, db, "복지 과정", "welfare-course", "welfare", 30000, 600)

	id, err := svc.CreateOrReuseEnrollment(owner.ID, course.ID, 30000)
	require.NoError(t, err)

	err = svc.RecordProgress(intruder.ID, id, 10, 10, 600)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.RecordProgress(owner.ID, 12345, 10, 10, 600)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestCompleteIfEligible_BelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "강하늘", "haneul@example.com")
	course := seedCourse(t, db, "심리학 개론", "psych-101", "psychology", 60000, 100)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 60000)
	require.NoError(t, err)
	require.NoError(t, svc.RecordProgress(user.ID, id, 97, 97, 100))

	_, err = svc.CompleteIfEligible(user.ID, id)
	var eligErr *EligibilityError
	require.ErrorAs(t, err, &eligErr)
	assert.InDelta(t, 97.0, eligErr.Percent, 0.001)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, id).Error)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	assert.Nil(t, enrollment.CertificateNumber)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestCompleteIfEligible_ZeroDurationNeverEligible(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "신세경", "sekyung@example.com")
	course := seedCourse(t, db, "신규 과정", "new-course", "psychology", 25000, 0)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 25000)
	require.NoError(t, err)

	_, err = svc.CompleteIfEligible(user.ID, id)
	var eligErr *EligibilityError
	require.ErrorAs(t, err, &eligErr)
	assert.Equal(t, 0.0, eligErr.Percent)
}

func TestCompleteIfEligible_IssuesCertificate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "오정세", "jungse@example.com")
	course := seedCourse(t, db, "심리학 개론", "psych-102", "psychology", 60000, 100)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 60000)
	require.NoError(t, err)
	require.NoError(t, svc.RecordProgress(user.ID, id, 98, 98, 100))

	number, err := svc.CompleteIfEligible(user.ID, id)
	require.NoError(t, err)
	assert.Regexp(t, certNumberPattern, number)
	assert.Contains(t, number, fmt.Sprintf("KRPIC-%d-PSY-", time.Now().Year()))

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, id).Error)
	assert.Equal(t, models.EnrollmentStatusCompleted, enrollment.Status)
	require.NotNil(t, enrollment.CertificateNumber)
	assert.Equal(t, number, *enrollment.CertificateNumber)
	assert.NotNil(t, enrollment.CompletedAt)

	// Issuance also creates the public verification record.
	var verification models.CertificateVerification
	require.NoError(t, db.Where("enrollment_id = ?", id).First(&verification).Error)
	assert.Equal(t, user.Name, verification.UserName)
	assert.Equal(t, course.Title, verification.CertificateName)
	assert.NotEmpty(t, verification.Code)
	assert.Equal(t, 0, verification.VerifiedCount)
}

func TestCompleteIfEligible_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "유재석", "jaeseok@example.com")
	course := seedCourse(t, db, "상담 실습", "counseling-practice", "counseling", 70000, 600)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 70000)
	require.NoError(t, err)
	require.NoError(t, svc.RecordProgress(user.ID, id, 595, 595, 600))

	first, err := svc.CompleteIfEligible(user.ID, id)
	require.NoError(t, err)

	var before models.Enrollment
	require.NoError(t, db.First(&before, id).Error)

	second, err := svc.CompleteIfEligible(user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// No state mutation and no second verification record on the repeat call.
	var after models.Enrollment
	require.NoError(t, db.First(&after, id).Error)
	assert.Equal(t, before.CompletedAt.Unix(), after.CompletedAt.Unix())

	var verifications int64
	require.NoError(t, db.Model(&models.CertificateVerification{}).
		Where("enrollment_id = ?", id).Count(&verifications).Error)
	assert.Equal(t, int64(1), verifications)
}

func TestForceComplete_UsesSameIssuancePath(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	user := seedUser(t, db, "관리대상", "target@example.com")
	course := seedCourse(t, db, "심리학 개론", "psych-103", "psychology", 60000, 100)

	id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 60000)
	require.NoError(t, err)

	// Admin override ignores the watch-progress threshold.
	number, err := svc.ForceComplete(id)
	require.NoError(t, err)
	assert.Regexp(t, certNumberPattern, number)

	// And stays idempotent against the learner-initiated path.
	again, err := svc.CompleteIfEligible(user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, number, again)
}

func TestCertificateNumbers_SequentialPerCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, "심리학 개론", "psych-seq", "psychology", 60000, 100)

	var numbers []string
	for i := 0; i < 3; i++ {
		user := seedUser(t, db, fmt.Sprintf("수강생%d", i), fmt.Sprintf("seq%d@example.com", i))
		id, err := svc.CreateOrReuseEnrollment(user.ID, course.ID, 60000)
		require.NoError(t, err)
		require.NoError(t, svc.RecordProgress(user.ID, id, 100, 100, 100))
		number, err := svc.CompleteIfEligible(user.ID, id)
		require.NoError(t, err)
		numbers = append(numbers, number)
	}

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("KRPIC-%d-PSY-00001", year), numbers[0])
	assert.Equal(t, fmt.Sprintf("KRPIC-%d-PSY-00002", year), numbers[1])
	assert.Equal(t, fmt.Sprintf("KRPIC-%d-PSY-00003", year), numbers[2])
}
