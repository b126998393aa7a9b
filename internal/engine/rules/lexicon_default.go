package rules

import "github.com/crimson-sun/roletag/internal/model"

// DefaultDepartmentLexicon returns the built-in department lexicon used when
// no lexicon file is configured.
func DefaultDepartmentLexicon() model.Lexicon {
	return model.Lexicon{
		{Label: "Information Technology", Terms: []string{
			"software engineer", "software developer", "data scientist", "data engineer",
			"machine learning", "full stack", "it manager", "it consultant", "system administrator",
			"software", "developer", "programmer", "devops", "it", "informatik", "cloud",
			"backend", "frontend", "database", "network", "security", "cto", "cio",
		}},
		{Label: "Sales", Terms: []string{
			"account executive", "account manager", "key account", "business development",
			"sales manager", "inside sales", "sales", "vertrieb", "verkauf", "ventes", "ventas",
		}},
		{Label: "Marketing", Terms: []string{
			"social media", "public relations", "content manager", "brand manager",
			"marketing", "seo", "brand", "campaign", "communications", "kommunikation",
		}},
		{Label: "Human Resources", Terms: []string{
			"human resources", "talent acquisition", "people operations",
			"hr", "recruiter", "recruiting", "personal", "personalwesen",
		}},
		{Label: "Purchasing", Terms: []string{
			"supply chain", "category manager", "purchasing", "procurement", "buyer", "einkauf",
		}},
		{Label: "Consulting", Terms: []string{
			"management consultant", "consultant", "consulting", "berater", "advisory",
		}},
		{Label: "Customer Support", Terms: []string{
			"customer service", "customer support", "customer success", "help desk", "kundenservice",
		}},
		{Label: "Project Management", Terms: []string{
			"project manager", "program manager", "scrum master", "projektleiter", "pmo",
		}},
		{Label: "Business Development", Terms: []string{
			"partnerships manager", "strategic partnerships", "corporate development", "expansion",
		}},
		{Label: "Administrative", Terms: []string{
			"office manager", "executive assistant", "administrative", "assistant", "secretary", "sekretariat",
		}},
	}
}

// DefaultSeniorityLexicon returns the built-in seniority lexicon keyed by the
// default hierarchy levels.
func DefaultSeniorityLexicon() model.Lexicon {
	return model.Lexicon{
		{Label: "C-Level", Terms: []string{
			"chief executive", "chief technology", "chief financial", "chief operating",
			"ceo", "cto", "cfo", "coo", "cio", "cmo", "founder", "owner", "geschaftsfuhrer", "president",
		}},
		{Label: "Director", Terms: []string{
			"head of", "vice president", "director", "vp", "direktor", "directeur",
		}},
		{Label: "Management", Terms: []string{
			"manager", "leiter", "leiterin", "responsable", "gerente",
		}},
		{Label: "Lead", Terms: []string{
			"team lead", "tech lead", "lead", "principal", "staff",
		}},
		{Label: "Senior", Terms: []string{
			"senior", "sr", "experienced", "specialist", "expert",
		}},
		{Label: "Junior", Terms: []string{
			"junior", "jr", "entry level", "graduate", "associate", "trainee", "assistant",
		}},
		{Label: "Intern", Terms: []string{
			"intern", "internship", "praktikant", "werkstudent", "working student", "student",
		}},
	}
}
