package geocode

// frenchNames maps country names Nominatim may return despite the French
// language hint to the French names used for display.
var frenchNames = map[string]string{
	// Europe
	"Switzerland": "Suisse", "Italy": "Italie", "Spain": "Espagne", "Germany": "Allemagne",
	"Belgium": "Belgique", "Netherlands": "Pays-Bas", "United Kingdom": "Royaume-Uni",
	"Austria": "Autriche", "Norway": "Norvège", "Sweden": "Suède", "Greece": "Grèce",
	"Poland": "Pologne", "Czech Republic": "Tchéquie", "Czechia": "Tchéquie",
	"Slovakia": "Slovaquie", "Slovenia": "Slovénie", "Croatia": "Croatie", "Serbia": "Serbie",
	"Bosnia and Herzegovina": "Bosnie-Herzégovine", "Montenegro": "Monténégro",
	"Albania": "Albanie", "North Macedonia": "Macédoine du Nord", "Romania": "Roumanie",
	"Bulgaria": "Bulgarie", "Hungary": "Hongrie", "Finland": "Finlande", "Denmark": "Danemark",
	"Iceland": "Islande", "Ireland": "Irlande", "Estonia": "Estonie", "Latvia": "Lettonie",
	"Lithuania": "Lituanie",

	// Asia
	"China": "Chine", "India": "Inde", "Japan": "Japon", "South Korea": "Corée du Sud",
	"Thailand": "Thaïlande", "Indonesia": "Indonésie", "Malaysia": "Malaisie", "Nepal": "Népal",
	"नेपाल": "Népal", "Bhutan": "Bhoutan", "Cambodia": "Cambodge", "Singapore": "Singapour",
	"Taiwan": "Taïwan", "Mongolia": "Mongolie",

	// Americas
	"United States": "États-Unis", "USA": "États-Unis", "Mexico": "Mexique",
	"El Salvador": "Salvador", "Brazil": "Brésil", "Argentina": "Argentine", "Chile": "Chili",
	"Peru": "Pérou", "Colombia": "Colombie", "Ecuador": "Équateur", "Bolivia": "Bolivie",
	"French Guiana": "Guyane française",

	// Oceania
	"Australia": "Australie", "New Zealand": "Nouvelle-Zélande",
	"Papua New Guinea": "Papouasie-Nouvelle-Guinée", "Fiji": "Fidji",
	"New Caledonia": "Nouvelle-Calédonie", "French Polynesia": "Polynésie française",

	// Africa
	"South Africa": "Afrique du Sud", "Egypt": "Égypte", "Morocco": "Maroc", "Algeria": "Algérie",
	"Tunisia": "Tunisie", "Libya": "Libye", "Tanzania": "Tanzanie", "Uganda": "Ouganda",
	"Ethiopia": "Éthiopie", "Senegal": "Sénégal", "Ivory Coast": "Côte d'Ivoire",
	"Cameroon": "Cameroun", "Democratic Republic of the Congo": "RD Congo", "Namibia": "Namibie",
	"Réunion": "La Réunion", "Mauritius": "Maurice",

	// Middle East and Caucasus
	"Turkey": "Turquie", "Israel": "Israël", "Jordan": "Jordanie", "Lebanon": "Liban",
	"Syria": "Syrie", "Iraq": "Irak", "Saudi Arabia": "Arabie saoudite",
	"United Arab Emirates": "Émirats arabes unis", "Yemen": "Yémen", "Kuwait": "Koweït",
	"Bahrain": "Bahreïn", "Armenia": "Arménie", "Azerbaijan": "Azerbaïdjan", "Georgia": "Géorgie",

	// Caribbean
	"Jamaica": "Jamaïque", "Haiti": "Haïti", "Dominican Republic": "République dominicaine",
	"Puerto Rico": "Porto Rico", "Trinidad and Tobago": "Trinité-et-Tobago", "Barbados": "Barbade",
}

// TranslateCountry returns the French name of a country, or name unchanged
// when it is already French or unknown
func TranslateCountry(name string) string {
	if fr, ok := frenchNames[name]; ok {
		return fr
	}
	return name
}
