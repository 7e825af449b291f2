package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ComputeFingerprint_IgnoresVolatileFields(t *testing.T) {

	a := ComputeFingerprint("saramin", "카카오", "데이터 분석가 (신입)", "서울 판교")
	b := ComputeFingerprint("saramin", "카카오", "데이터 분석가 (신입)", "서울 판교")
	assert.Equal(t, a, b)

	// casing and whitespace do not change identity
	c := ComputeFingerprint("Saramin", " 카카오 ", "데이터  분석가 (신입)", "서울  판교")
	assert.Equal(t, a, c)
}

func Test_ComputeFingerprint_DiffersPerSourceAndTitle(t *testing.T) {

	base := ComputeFingerprint("saramin", "카카오", "데이터 분석가", "서울")
	assert.NotEqual(t, base, ComputeFingerprint("inthiswork", "카카오", "데이터 분석가", "서울"))
	assert.NotEqual(t, base, ComputeFingerprint("saramin", "카카오", "백엔드 개발자", "서울"))
}

func Test_ComputeContentHash_ChangesWithDeadline(t *testing.T) {

	d1 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, ComputeContentHash("desc", &d1), ComputeContentHash("desc", &d1))
	assert.NotEqual(t, ComputeContentHash("desc", &d1), ComputeContentHash("desc", &d2))
	assert.NotEqual(t, ComputeContentHash("desc", nil), ComputeContentHash("desc", &d1))
}

func Test_DaysUntilDeadline(t *testing.T) {

	now := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	deadline := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	p := Posting{Deadline: &deadline}
	days := p.DaysUntilDeadline(now)
	assert.NotNil(t, days)
	assert.Equal(t, 5, *days)

	assert.Nil(t, Posting{}.DaysUntilDeadline(now))
}
