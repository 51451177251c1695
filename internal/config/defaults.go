package config

// defaultTopicKeywords returns the topic keyword lists used by the hotspot
// detector's keyword-intensity sub-score.
func defaultTopicKeywords() map[string][]string {
	return map[string][]string{
		"military": {
			"military", "defense", "pentagon", "army", "navy", "air force",
			"marines", "coast guard", "war", "conflict", "combat", "troop",
			"soldier", "veteran", "weapon", "missile", "drone", "nuclear",
			"tank", "aircraft", "carrier", "submarine", "intelligence",
			"cia", "nsa", "dod", "defense department", "homeland security",
			"border", "immigration", "terrorism", "cyber", "cybersecurity",
			"espionage", "surveillance", "treaty", "alliance", "nato",
			"un peacekeeping", "geopolitics", "strategy", "tactics",
		},
		"politics": {
			"politics", "government", "congress", "senate", "house",
			"white house", "president", "vice president", "secretary",
			"ambassador", "diplomacy", "foreign policy", "domestic policy",
			"election", "vote", "campaign", "democrat", "republican", "gop",
			"liberal", "conservative", "legislation", "bill", "law",
			"regulation", "executive order", "judicial", "supreme court",
			"federal", "state", "governor", "mayor", "sanction",
			"trade war", "diplomatic", "summit", "negotiation",
			"bilateral", "multilateral",
		},
		"economy": {
			"economy", "economic", "finance", "financial", "fed",
			"federal reserve", "interest rate", "inflation", "deflation",
			"recession", "gdp", "growth", "stock", "market", "trading",
			"wall street", "nasdaq", "dow jones", "s&p 500", "investment",
			"investor", "fund", "etf", "bond", "treasury", "yield",
			"dollar", "euro", "yuan", "currency", "exchange rate", "trade",
			"tariff", "export", "import", "supply chain", "manufacturing",
			"jobs", "employment", "unemployment", "labor", "wage",
			"salary", "consumer", "spending", "retail", "sales", "housing",
			"mortgage", "real estate", "bank", "banking",
			"cryptocurrency", "bitcoin", "crypto", "fintech",
		},
	}
}

// defaultOfficialDomains are hints for government/military sources.
func defaultOfficialDomains() []string {
	return []string{
		".gov", ".mil", "mod.go.jp", "gov.ph", "mindef.gov.sg",
		"defence.gov.au", "fmprc.gov.cn", "mod.gov.cn",
	}
}

// defaultHighTrustDomains are hints for independently-credible sources.
func defaultHighTrustDomains() []string {
	return []string{
		"reuters.com", "apnews.com", "ap.org", "bloomberg.com", "ft.com",
		"wsj.com", "state.gov", "federalregister.gov", "bis.doc.gov",
		"treasury.gov", "home.treasury.gov", "defense.gov", "navy.mil",
		"af.mil", "indo-pacificcommand.mil", "mod.go.jp", "defence.gov.au",
	}
}

// defaultOfficialEffectiveKeywords mark text announcing that an official
// measure is actually in force, a prerequisite for L4.
func defaultOfficialEffectiveKeywords() []string {
	return []string{
		"effective", "final rule", "executive order", "official statement",
		"生效", "正式生效", "最终规则", "正式发布", "正式發布", "公告", "條款生效",
	}
}
