package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractConfidence_InlineBlock(t *testing.T) {
	text := "Intro ```json {\"items\":[{\"name\":\"Flu\",\"prob\":0.8}]} ``` trailing"

	got, err := ExtractConfidence(text)
	require.NoError(t, err)
	assert.Equal(t, Confidence{
		"items": []any{map[string]any{"name": "Flu", "prob": 0.8}},
	}, got)
}

func TestExtractConfidence_MultilineBlock(t *testing.T) {
	text := "**Flu**\nFever and aches.\nSuggested specialist: **GP**\n\n```json\n{\n  \"items\": [\n    {\"name\": \"Flu\", \"prob\": 0.7},\n    {\"name\": \"COVID-19\", \"prob\": 0.2}\n  ]\n}\n```\n"

	got, err := ExtractConfidence(text)
	require.NoError(t, err)
	assert.Equal(t, []ConfidenceItem{{Name: "Flu", Prob: 0.7}, {Name: "COVID-19", Prob: 0.2}}, got.Items())
}

func TestExtractConfidence_FirstBlockOnly(t *testing.T) {
	text := "```json\n{\"items\":[{\"name\":\"A\",\"prob\":0.5}]}\n```\nand\n```json\n{\"items\":[{\"name\":\"B\",\"prob\":0.9}]}\n```"

	got, err := ExtractConfidence(text)
	require.NoError(t, err)
	assert.Equal(t, []ConfidenceItem{{Name: "A", Prob: 0.5}}, got.Items())
}

func TestExtractConfidence_NoBlock(t *testing.T) {
	for _, text := range []string{
		"",
		"plain markdown with no fence",
		"```\n{\"items\":[]}\n```",
		"```python\nprint(1)\n```",
	} {
		got, err := ExtractConfidence(text)
		assert.ErrorIs(t, err, ErrNoConfidenceBlock, text)
		assert.Nil(t, got)
	}
}

func TestExtractConfidence_Malformed(t *testing.T) {
	text := "```json\n{\"items\": [{\"name\": \"Flu\", \"prob\": }\n```"

	got, err := ExtractConfidence(text)
	assert.ErrorIs(t, err, ErrMalformedConfidence)
	assert.Nil(t, got)
}

func TestExtractConfidence_Idempotent(t *testing.T) {
	text := "x ```json {\"items\":[]} ``` y"

	first, err := ExtractConfidence(text)
	require.NoError(t, err)
	second, err := ExtractConfidence(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, Confidence{"items": []any{}}, first)
}

func TestConfidenceItems_SkipsBadEntries(t *testing.T) {
	c := Confidence{"items": []any{
		map[string]any{"name": "Flu", "prob": 0.4},
		map[string]any{"name": 3, "prob": 0.4},
		map[string]any{"name": "Cold"},
		"nope",
	}}
	assert.Equal(t, []ConfidenceItem{{Name: "Flu", Prob: 0.4}}, c.Items())
	assert.Nil(t, Confidence{}.Items())
}

func TestConfidence_ValueScan(t *testing.T) {
	v, err := Confidence(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	c := Confidence{"items": []any{map[string]any{"name": "Flu", "prob": 0.8}}}
	v, err = c.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"name":"Flu","prob":0.8}]}`, v.(string))

	var back Confidence
	require.NoError(t, back.Scan([]byte(v.(string))))
	assert.Equal(t, c, back)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back)

	assert.Error(t, back.Scan(42))
	assert.Error(t, back.Scan("{broken"))
}

func TestRequireText(t *testing.T) {
	v, err := RequireText("symptoms", "  cough  ")
	require.NoError(t, err)
	assert.Equal(t, "cough", v)

	_, err = RequireText("symptoms", " \n\t ")
	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "symptoms", ve.Field)
	assert.Equal(t, "missing field 'symptoms'", err.Error())
}
