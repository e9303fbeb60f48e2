package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplicant() ApplicantData {
	return ApplicantData{
		FullName:   "Ahmad Fauzi",
		NIK:        "3509160101180001",
		BirthPlace: "Jember",
		BirthDate:  "2018-01-01",
		Gender:     "Laki-laki",
	}
}

func validGuardian() GuardianData {
	return GuardianData{
		KKNumber:    "3509160101180002",
		FatherName:  "Budi Santoso",
		MotherName:  "Siti Aminah",
		ParentPhone: "081234567890",
		Address:     "Desa Tempurejo RT 01 RW 02",
	}
}

// walkToReview drives a fresh wizard through all four data sections so the
// review section is unlocked and both attachments are in place.
func walkToReview(t *testing.T) *Wizard {
	t.Helper()

	w := NewWizard()
	w.UpdateApplicant(validApplicant())
	require.NoError(t, w.Advance(SectionApplicant))

	w.UpdateGuardian(validGuardian())
	require.NoError(t, w.Advance(SectionGuardian))

	require.NoError(t, w.SetAttachment(SlotKK, 1, "data:image/jpeg;base64,a"))
	require.NoError(t, w.SetAttachment(SlotAkte, 1, "data:image/jpeg;base64,b"))
	require.NoError(t, w.Advance(SectionDocuments))
	require.NoError(t, w.Advance(SectionSchools))

	return w
}

func TestNewWizardDefaults(t *testing.T) {
	w := NewWizard()
	state := w.State()

	assert.Equal(t, SectionApplicant, state.Active)
	assert.Equal(t, SectionApplicant, state.HighestUnlocked)
	assert.Equal(t, []string{HomeSchool}, state.SchoolChoices)
	assert.Equal(t, "Laki-laki", state.Applicant.Gender)
	assert.False(t, state.HasKKImage)
	assert.False(t, state.HasAkteImage)
}

func TestAdvanceRejectsInvalidApplicant(t *testing.T) {
	w := NewWizard()

	data := validApplicant()
	data.FullName = ""
	w.UpdateApplicant(data)

	err := w.Advance(SectionApplicant)
	require.Error(t, err)
	assert.Equal(t, "Nama lengkap wajib diisi", err.Error())

	state := w.State()
	assert.Equal(t, SectionApplicant, state.HighestUnlocked)
	assert.Empty(t, state.Committed)
}

func TestAdvanceRejectsShortNIK(t *testing.T) {
	w := NewWizard()

	data := validApplicant()
	data.NIK = "12345"
	w.UpdateApplicant(data)

	err := w.Advance(SectionApplicant)
	require.Error(t, err)
	assert.Equal(t, "NIK harus 16 digit", err.Error())
}

func TestAdvanceUnlocksNextSection(t *testing.T) {
	w := NewWizard()
	w.UpdateApplicant(validApplicant())

	require.NoError(t, w.Advance(SectionApplicant))

	state := w.State()
	assert.Equal(t, SectionGuardian, state.Active)
	assert.Equal(t, SectionGuardian, state.HighestUnlocked)
	assert.Contains(t, state.Committed, SectionApplicant)
}

func TestAdvanceLockedSection(t *testing.T) {
	w := NewWizard()

	err := w.Advance(SectionSchools)
	assert.ErrorIs(t, err, ErrSectionLocked)
}

func TestJumpGating(t *testing.T) {
	w := NewWizard()
	w.UpdateApplicant(validApplicant())
	require.NoError(t, w.Advance(SectionApplicant))

	assert.ErrorIs(t, w.JumpTo(SectionDocuments), ErrSectionLocked)
	assert.NoError(t, w.JumpTo(SectionApplicant))
	assert.Equal(t, SectionApplicant, w.State().Active)

	// Unlocked sections stay reachable after jumping back.
	assert.NoError(t, w.JumpTo(SectionGuardian))
}

func TestJumpUnknownSection(t *testing.T) {
	w := NewWizard()
	assert.ErrorIs(t, w.JumpTo(WizardSection(9)), ErrUnknownSection)
}

func TestNextAttachmentSeqReservesDistinctNumbers(t *testing.T) {
	w := NewWizard()

	seq1, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)
	seq2, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)
	assert.Greater(t, seq2, seq1)

	// Slots sequence independently.
	akteSeq, err := w.NextAttachmentSeq(SlotAkte)
	require.NoError(t, err)
	assert.Equal(t, seq1, akteSeq)
}

func TestSetAttachmentLastSelectionWins(t *testing.T) {
	w := NewWizard()

	seq1, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)
	seq2, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)

	// The later selection's compression finishes first and is applied.
	require.NoError(t, w.SetAttachment(SlotKK, seq2, "newer"))

	// The earlier selection finishing late is discarded, never the reverse.
	err = w.SetAttachment(SlotKK, seq1, "older")
	assert.ErrorIs(t, err, ErrStaleAttachment)
	assert.True(t, w.State().HasKKImage)
}

func TestSetAttachmentInOrderCompletionsBothApply(t *testing.T) {
	w := NewWizard()

	seq1, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)
	seq2, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)

	require.NoError(t, w.SetAttachment(SlotKK, seq1, "first"))
	require.NoError(t, w.SetAttachment(SlotKK, seq2, "second"))
}

func TestSetAttachmentExplicitSeqKeepsReservationsAhead(t *testing.T) {
	w := NewWizard()

	// A client supplying its own sequence must not stall later reservations.
	require.NoError(t, w.SetAttachment(SlotKK, 10, "explicit"))

	next, err := w.NextAttachmentSeq(SlotKK)
	require.NoError(t, err)
	assert.Greater(t, next, uint64(10))
	assert.NoError(t, w.SetAttachment(SlotKK, next, "reserved"))
}

func TestSetAttachmentUnknownSlot(t *testing.T) {
	w := NewWizard()
	assert.ErrorIs(t, w.SetAttachment(AttachmentSlot("ijazah"), 1, "x"), ErrUnknownSlot)
}

func TestSchoolChoiceLimitAndDuplicates(t *testing.T) {
	w := NewWizard()

	require.NoError(t, w.AddSchoolChoice("SD Negeri Tempurejo 2"))
	assert.ErrorIs(t, w.AddSchoolChoice("SD Negeri Tempurejo 2"), ErrDuplicateChoice)
	assert.ErrorIs(t, w.AddSchoolChoice(HomeSchool), ErrDuplicateChoice)

	require.NoError(t, w.AddSchoolChoice("SD Negeri Tempurejo 3"))
	require.NoError(t, w.AddSchoolChoice("SD Negeri Tempurejo 4"))
	require.NoError(t, w.AddSchoolChoice("SD Negeri Tempurejo 5"))
	assert.ErrorIs(t, w.AddSchoolChoice("SD Negeri Curahnongko 1"), ErrChoiceLimit)
}

func TestRemoveSchoolChoiceKeepsHomeSchool(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.AddSchoolChoice("SD Negeri Tempurejo 2"))

	require.NoError(t, w.RemoveSchoolChoice(0))
	assert.Equal(t, []string{HomeSchool, "SD Negeri Tempurejo 2"}, w.State().SchoolChoices)

	require.NoError(t, w.RemoveSchoolChoice(1))
	assert.Equal(t, []string{HomeSchool}, w.State().SchoolChoices)

	assert.Error(t, w.RemoveSchoolChoice(5))
}

func TestBeginSubmitRequiresReview(t *testing.T) {
	w := NewWizard()
	w.UpdateApplicant(validApplicant())
	require.NoError(t, w.Advance(SectionApplicant))

	_, err := w.BeginSubmit()
	assert.ErrorIs(t, err, ErrNotOnReview)
}

func TestBeginSubmitRequiresAttachments(t *testing.T) {
	w := walkToReview(t)

	// Drop one attachment after the documents section was committed.
	w.draft.AkteImage = ""

	_, err := w.BeginSubmit()
	assert.ErrorIs(t, err, ErrMissingAttachment)
}

func TestSubmitLifecycle(t *testing.T) {
	w := walkToReview(t)

	payload, err := w.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Fauzi", payload.FullName)
	assert.Equal(t, []string{HomeSchool}, payload.SchoolChoices)

	// A second attempt while the first is in flight is refused.
	_, err = w.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	// A store failure releases the gate and keeps the draft retryable.
	w.EndSubmit("", false)
	_, err = w.BeginSubmit()
	require.NoError(t, err)

	w.EndSubmit("reg-123", true)
	assert.Equal(t, "reg-123", w.State().SubmittedID)

	_, err = w.BeginSubmit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestBeginSubmitPayloadIsACopy(t *testing.T) {
	w := walkToReview(t)

	payload, err := w.BeginSubmit()
	require.NoError(t, err)

	payload.SchoolChoices[0] = "tampered"
	assert.Equal(t, HomeSchool, w.State().SchoolChoices[0])
}
