package prompt

import "fmt"

// MaxDiagnoses is how many ranked diagnoses the template asks for.
const MaxDiagnoses = 5

const diagnosisTemplate = `
You are an intelligent medical assistant.
Based on the symptoms given, list at most %d of the most likely diagnoses.
For each disease use the following Markdown format:

**Disease name (e.g. Flu, COVID-19, Bronchitis)**
A short description of the symptoms in one sentence.
Suggested specialist: **doctor's specialty**

Symptoms:
"""
%s
"""

Additionally (at the very end) write a JSON object "confidence" with the fields:
- "items": a list of objects { "name": string, "prob": number 0-1 }
Make sure the JSON is in a single triple-backtick block written as ` + "```json ... ```" + `.
`

// Diagnosis renders the diagnose prompt. symptoms is inserted as is.
func Diagnosis(symptoms string) string {
	return fmt.Sprintf(diagnosisTemplate, MaxDiagnoses, symptoms)
}
