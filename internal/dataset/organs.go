package dataset

// FactsSource is the study the attribution percentages come from.
const FactsSource = "De Sanjosé et al. (2019)"

// Organ groups the HPV-attributable cancers of one body site.
type Organ struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Facts  []string `json:"facts"`
	Source string   `json:"source"`
}

var organs = []Organ{
	{ID: "anus", Title: "Anus", Facts: []string{
		"95.7% of anal cancer cases are caused by a human papillomavirus (HPV) infection.",
	}},
	{ID: "oropharynx", Title: "Upper Aerodigestive Tract", Facts: []string{
		"Oropharynx : 95.1% of oropharyngeal cancer cases are caused by an HPV infection.",
		"Oral Cavity : 92.7% of oral cavity cancer cases are caused by an HPV infection.",
		"Larynx : 77.8% of laryngeal cancer cases are caused by an HPV infection.",
	}},
	{ID: "penis", Title: "Penis", Facts: []string{
		"88.1% of penile cancer cases are caused by a human papillomavirus (HPV) infection.",
	}},
	{ID: "vagin", Title: "Female genital tract", Facts: []string{
		"Vulva : 92.8% of vulvar cancer cases are caused by a human papillomavirus (HPV) infection.",
		"Cervix (Uterine Cervix) : 89.3% of cervical cancer cases are caused by an HPV infection.",
		"Vagina : 85.6% of vaginal cancer cases are caused by an HPV infection.",
	}},
}

// Organs returns the organ fact sheets.
func Organs() []Organ {
	out := make([]Organ, len(organs))
	for i, o := range organs {
		o.Facts = append([]string(nil), o.Facts...)
		o.Source = FactsSource
		out[i] = o
	}
	return out
}

// OrganByID returns one organ fact sheet.
func OrganByID(id string) (Organ, bool) {
	for _, o := range Organs() {
		if o.ID == id {
			return o, true
		}
	}
	return Organ{}, false
}
