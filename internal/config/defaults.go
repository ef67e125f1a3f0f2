package config

import "github.com/sortsense/sortsense/internal/model"

// FallbackCategory is the reserved category name assigned when no
// configured category clears the confidence threshold.
const FallbackCategory = "unsorted"

// DefaultCategories returns the built-in category set. User-configured
// categories with the same name override these; ordering is significant
// because score ties resolve to the earlier category.
func DefaultCategories() []model.Category {
	return []model.Category{
		{
			Name:        "documents",
			Description: "Legal, Financial & Official Papers",
			Folder:      "documents",
			Keywords: []string{
				"invoice", "receipt", "payment", "transaction", "bank", "statement",
				"tax", "w-2", "1099", "paystub", "billing", "amount due", "balance",
				"purchase", "credit card", "debit", "salary", "wage",
				"visa", "passport", "immigration", "citizenship",
				"birth certificate", "social security", "ssn",
				"contract", "agreement", "lease", "deed", "insurance",
				"mortgage", "utilities", "registration",
			},
		},
		{
			Name:        "work",
			Description: "Career & Employment",
			Folder:      "work",
			Keywords: []string{
				"resume", "cv", "curriculum vitae", "job application",
				"offer letter", "employment", "interview", "cover letter",
				"professional experience", "job description", "work history",
				"references", "recommendation", "linkedin", "promotion",
				"performance review", "benefits", "onboarding",
			},
		},
		{
			Name:        "school",
			Description: "Education & Academic",
			Folder:      "school",
			Keywords: []string{
				"transcript", "degree", "diploma", "certificate", "university",
				"college", "course", "student", "academic", "gpa", "enrollment",
				"graduation", "school", "semester", "credits", "scholarship",
				"syllabus", "assignment", "exam", "lecture", "professor",
				"homework", "thesis",
			},
		},
		{
			Name:        "health",
			Description: "Medical & Wellness",
			Folder:      "health",
			Keywords: []string{
				"medical", "health", "doctor", "hospital", "prescription",
				"patient", "diagnosis", "vaccination", "vaccine", "clinical",
				"lab results", "blood test", "pharmacy", "medicine", "therapy",
				"dental", "copay", "deductible",
			},
		},
		{
			Name:        "photos",
			Description: "Pictures & Memories",
			Folder:      "photos",
			Keywords: []string{
				"photo", "image", "picture", "dsc", "img", "screenshot",
				"selfie", "vacation", "birthday", "wedding", "album",
				"camera", "portrait",
			},
		},
		{
			Name:        "projects",
			Description: "Tech, Code & Creative Work",
			Folder:      "projects",
			Keywords: []string{
				"programming", "javascript", "python", "code", "github",
				"software", "developer", "api", "server", "database", "linux",
				"docker", "kubernetes", "cloud", "git", "npm", "react",
				"typescript", "design", "portfolio",
			},
		},
	}
}
