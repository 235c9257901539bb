package league

import "strings"

// FocusTeam is the team the app centres on unless configured otherwise.
const FocusTeam = "ERC Ingolstadt"

// Team is a DEL club with its standings short code and team page slug.
type Team struct {
	Name string
	Code string
	Slug string
}

// Teams lists the clubs of the current season.
var Teams = []Team{
	{Name: "ERC Ingolstadt", Code: "ING", Slug: "erc-ingolstadt"},
	{Name: "Kölner Haie", Code: "KEC", Slug: "koelner-haie"},
	{Name: "Adler Mannheim", Code: "MAN", Slug: "adler-mannheim"},
	{Name: "Red Bull München", Code: "RBM", Slug: "ehc-red-bull-muenchen"},
	{Name: "Eisbären Berlin", Code: "EBB", Slug: "eisbaeren-berlin"},
	{Name: "Grizzlys Wolfsburg", Code: "WOB", Slug: "grizzlys-wolfsburg"},
	{Name: "Pinguins Bremerhaven", Code: "BHV", Slug: "pinguins-bremerhaven"},
	{Name: "Straubing Tigers", Code: "STR", Slug: "straubing-tigers"},
	{Name: "Nürnberg Ice Tigers", Code: "NIT", Slug: "nuernberg-ice-tigers"},
	{Name: "Schwenninger Wild Wings", Code: "SWW", Slug: "schwenninger-wild-wings"},
	{Name: "Augsburger Panther", Code: "AEV", Slug: "augsburger-panther"},
	{Name: "Löwen Frankfurt", Code: "FRA", Slug: "loewen-frankfurt"},
	{Name: "Dresdner Eislöwen", Code: "DRE", Slug: "dresdner-eislowen"},
}

// LookupTeam finds a team by full name.
func LookupTeam(name string) (Team, bool) {
	for _, t := range Teams {
		if t.Name == name {
			return t, true
		}
	}
	return Team{}, false
}

// ShortCode returns the standings code for a full team name.
func ShortCode(name string) (string, bool) {
	t, ok := LookupTeam(name)
	return t.Code, ok
}

// Slug returns the team page slug for a full team name.
func Slug(name string) (string, bool) {
	t, ok := LookupTeam(name)
	if !ok || t.Slug == "" {
		return "", false
	}
	return t.Slug, true
}

// TeamNames returns the full names of all teams in list order.
func TeamNames() []string {
	names := make([]string, len(Teams))
	for i, t := range Teams {
		names[i] = t.Name
	}
	return names
}

// RecentCacheKey names the recent-results cache for a team: "recent_ing".
// Unmapped teams fall back to their name with underscores.
func RecentCacheKey(name string) string {
	code, ok := ShortCode(name)
	if !ok {
		code = strings.ReplaceAll(name, " ", "_")
	}
	return "recent_" + strings.ToLower(code)
}
