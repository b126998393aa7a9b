package rules

// Keywords below are written against normalized text (see textnorm). A
// leading or trailing space marks a word edge.

// DefaultSeniorityLevels returns the seniority hierarchy, most senior first.
func DefaultSeniorityLevels() []string {
	return []string{"C-Level", "Director", "Management", "Lead", "Senior", "Junior", "Intern"}
}

// DefaultDepartmentRules returns the built-in department rules. Specific
// departments are checked before the catch-all "Other" groups.
func DefaultDepartmentRules() []Rule {
	return []Rule{
		{
			Label: "Information Technology",
			Keywords: []string{
				"software", "developer", "engineer", "programmer", "architect", "devops",
				"data scientist", "data engineer", "data analyst", "machine learning", " ai ",
				"system", "network", "database", "infrastructure", "cloud", "sysadmin",
				"security", "infosec", "technical", "technology", " tech ", " it ",
				"frontend", "backend", "full stack", "fullstack",
				" java", "python", "javascript", " net ", "ruby", " php ",
				"applikation", "informatik", "ingenieur", " cto ", " cio ",
			},
		},
		{
			Label: "Sales",
			Keywords: []string{
				"sales", "verkauf", "vertrieb", "vendas", "ventes", "ventas",
				"account executive", "account manager", "business development",
				"commercial", "key account",
			},
			Exclusions: []string{" ceo ", "founder", "owner"},
		},
		{
			Label: "Marketing",
			Keywords: []string{
				"marketing", "communication", "kommunikation", "comunicacao",
				"brand", "content", "social media", " seo ", " sem ", " ppc ",
				"campaign", "advertising", "public relations", " pr ",
				"media", "creative", "copywriter", "graphic", "growth",
			},
		},
		{
			Label: "Other",
			Keywords: []string{
				" ceo ", " cfo ", "founder", "owner", "geschaftsfuhrer",
				"managing director", "prokurist", "vorstand", "board member",
			},
		},
		{
			Label:    "Other",
			Keywords: []string{"professor", "dr phil", "physician", "doctor", "researcher", "scientist"},
		},
		{
			Label: "Other",
			Keywords: []string{
				"operations director", "head of operations", "operations manager",
				"chief operations", "operations officer",
			},
		},
		{
			Label: "Other",
			Keywords: []string{
				"finance director", "financial controller", "treasurer",
				"kreditsachbearbeiter", "betriebswirt",
			},
		},
	}
}

// DefaultSeniorityRules returns the built-in seniority rules, highest
// level first.
func DefaultSeniorityRules() []Rule {
	return []Rule{
		{Label: "Director", Keywords: []string{"director"}, Exclusions: []string{"associate"}},
		{Label: "Director", Keywords: []string{"head of", "vice president", " vp "}},
		{
			Label: "Management",
			Keywords: []string{
				" ceo ", " cfo ", " cto ", " coo ", "founder", "owner", "chief",
				"general manager", "managing director", "geschaftsfuhrer",
			},
		},
		{
			Label:    "Lead",
			Keywords: []string{"manager", "managing", "lead", "principal", "chef de", "coordinator", "specialist"},
		},
		{Label: "Senior", Keywords: []string{"senior", " sr "}},
		{
			Label:    "Junior",
			Keywords: []string{"junior", " jr ", "associate", "analyst", "trainee", " intern ", "internship", "student"},
		},
	}
}
