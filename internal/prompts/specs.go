package prompts

const rankSpec = `Return ONLY a valid JSON object with this exact structure:

{
  "candidates": [
    {
      "candidateIndex": <number>,
      "fullName": "<string or null>",
      "email": "<string or null>",
      "phone": "<string or null>",
      "location": "<string or null>",
      "jobTitle": "<string or null>",
      "yearsOfExperience": <number or null>,
      "matchScore": <number 0-100>,
      "reasoning": "<string max 80 chars>",
      "strengths": ["<string>", "<string>", "<string>"],
      "concerns": ["<string>", "<string>", "<string>"]
    }
  ]
}

Field constraints:
- candidateIndex: the index given for the candidate in the input list.
- Include exactly one entry for every candidate in the input list.
- reasoning: at most 80 characters.
- strengths and concerns: at most 3 items each.`

const extractSpec = `Return ONLY a valid JSON object with these fields, no markdown or explanations:

{
  "full_name": "string",
  "email": "string",
  "phone_number": "string",
  "location": "string",
  "job_title": "string",
  "years_of_experience": number,
  "sector": "string",
  "skills": ["array", "of", "strings"],
  "experience": "string (summary of work experience)",
  "education": "string (summary of education)",
  "resume_text": "string (full extracted text)"
}

Use null for any field the resume does not contain.`

const transcribeSpec = `Return only the transcribed text. Do not wrap it in markdown or add commentary.`

var specs = map[Stage]string{
	StageRank:       rankSpec,
	StageExtract:    extractSpec,
	StageTranscribe: transcribeSpec,
}

// Spec returns the fixed output specification for a stage.
// Specifications define the response format the decoders expect and are not overridable.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
