package scoring

// SoftSkills is the fixed set of soft-skill labels scored for every interview,
// regardless of the selected prompt.
var SoftSkills = []string{
	"Communication",
	"Teamwork",
	"Attitude",
	"Professionalism",
	"Leadership",
	"Creativity",
	"Sociability",
}

// RequiredSkills returns the union of the fixed soft-skill labels and the
// prompt's hard skills, preserving order and dropping duplicates.
func RequiredSkills(hardSkills []string) []string {
	seen := make(map[string]bool, len(SoftSkills)+len(hardSkills))
	out := make([]string, 0, len(SoftSkills)+len(hardSkills))
	for _, s := range SoftSkills {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range hardSkills {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
