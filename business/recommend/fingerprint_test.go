//go:build !integration

package recommend

import (
	"testing"

	"procureMatch/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "need 500 led lights", NormalizeQuery("  Need   500\tLED\n lights "))
	assert.Equal(t, "", NormalizeQuery("   \n\t "))
}

func TestFingerprintStableAcrossFormatting(t *testing.T) {
	a := Fingerprint("Need 500 LED lights", "user-1", 10)
	b := Fingerprint("  need   500 led LIGHTS ", "user-1", 10)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintVariesByInputs(t *testing.T) {
	base := Fingerprint("led lights", "user-1", 10)

	assert.NotEqual(t, base, Fingerprint("led panels", "user-1", 10))
	assert.NotEqual(t, base, Fingerprint("led lights", "user-2", 10))
	assert.NotEqual(t, base, Fingerprint("led lights", "user-1", 20))
	assert.NotEqual(t, base, Fingerprint("led lights", "", 10), "anonymous and identified callers never share entries")
}

func TestRequirementDigestSensitivity(t *testing.T) {
	qty := 500.0
	reqs := domain.RequirementSet{Requirements: []domain.Requirement{
		{Text: "LED lights", Category: domain.RequirementFunctional, Quantity: &qty},
	}}

	base := RequirementDigest(reqs)
	assert.Len(t, base, 64)

	reordered := domain.RequirementSet{Requirements: []domain.Requirement{
		{Text: "LED lights", Category: domain.RequirementTechnical, Quantity: &qty},
	}}
	assert.NotEqual(t, base, RequirementDigest(reordered))

	noQty := domain.RequirementSet{Requirements: []domain.Requirement{
		{Text: "LED lights", Category: domain.RequirementFunctional},
	}}
	assert.NotEqual(t, base, RequirementDigest(noQty))

	// casing of the text does not matter
	cased := domain.RequirementSet{Requirements: []domain.Requirement{
		{Text: "led LIGHTS", Category: domain.RequirementFunctional, Quantity: &qty},
	}}
	assert.Equal(t, base, RequirementDigest(cased))
}
