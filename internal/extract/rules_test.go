package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"

	"go-jobpost-crawler/internal/models"
)

func TestClassify_DecomposedHangulStillMatches(t *testing.T) {
	heading := norm.NFD.String("토스페이먼츠 소속")

	fields := Classify(testRules, []string{heading})

	assert.Equal(t, "토스페이먼츠", fields.CompanyNameDetail)
}

func TestClassify_EmptyAndBlankHeadings(t *testing.T) {
	assert.Equal(t, models.DetailFields{}, Classify(testRules, nil))
	assert.Equal(t, models.DetailFields{}, Classify(testRules, []string{"", "   "}))
}

func TestClassify_MarkerOnlyHeadingLeavesEmptyValue(t *testing.T) {
	fields := Classify(testRules, []string{"토스 소속", "소속"})

	assert.Equal(t, "", fields.CompanyNameDetail)
}

func TestRuleValidate(t *testing.T) {
	assert.NoError(t, testRules[0].Validate())
	assert.Error(t, Rule{Field: "location", Contains: []string{"x"}}.Validate())
	assert.Error(t, Rule{Field: FieldEmploymentType}.Validate())
	assert.Error(t, Rule{Field: FieldEmploymentType, Contains: []string{" "}}.Validate())
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "정규 직", CleanText("  정규 \n 직 "))
	assert.Equal(t, "", CleanText("\t"))
}

func TestSelectorsValidate(t *testing.T) {
	assert.NoError(t, testSelectors.Validate())
	broken := testSelectors
	broken.DetailHeading = ""
	assert.Error(t, broken.Validate())

	unclosed := testSelectors
	unclosed.DetailContainer = "div["
	assert.ErrorContains(t, unclosed.Validate(), "detail_container")
}
