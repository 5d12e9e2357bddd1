package safety

// Category groups risk terms by the kind of situation they point at.
type Category string

const (
	CategorySelfHarm  Category = "self_harm"
	CategoryOverdose  Category = "overdose"
	CategoryCardiac   Category = "cardiac"
	CategoryBreathing Category = "breathing"
	CategoryBleeding  Category = "bleeding"
	CategoryStroke    Category = "stroke"
	CategoryEmergency Category = "emergency"
)

// Keyword is one risk term and the category it belongs to.
// Terms are stored lower-case.
type Keyword struct {
	Term     string
	Category Category
}

// defaultKeywords is the built-in risk list. Order matters: the first match wins
// when a verdict names its category, so specific phrases come before the broad
// catch-alls at the end.
var defaultKeywords = []Keyword{
	{Term: "suicide", Category: CategorySelfHarm},
	{Term: "suicidal", Category: CategorySelfHarm},
	{Term: "kill myself", Category: CategorySelfHarm},
	{Term: "end my life", Category: CategorySelfHarm},
	{Term: "self harm", Category: CategorySelfHarm},
	{Term: "self-harm", Category: CategorySelfHarm},
	{Term: "hurt myself", Category: CategorySelfHarm},

	{Term: "overdose", Category: CategoryOverdose},
	{Term: "overdosed", Category: CategoryOverdose},
	{Term: "too many pills", Category: CategoryOverdose},
	{Term: "poisoned", Category: CategoryOverdose},

	{Term: "chest pain", Category: CategoryCardiac},
	{Term: "heart attack", Category: CategoryCardiac},
	{Term: "cardiac arrest", Category: CategoryCardiac},

	{Term: "can't breathe", Category: CategoryBreathing},
	{Term: "cant breathe", Category: CategoryBreathing},
	{Term: "cannot breathe", Category: CategoryBreathing},
	{Term: "can not breathe", Category: CategoryBreathing},
	{Term: "not breathing", Category: CategoryBreathing},
	{Term: "choking", Category: CategoryBreathing},

	{Term: "bleeding heavily", Category: CategoryBleeding},
	{Term: "heavy bleeding", Category: CategoryBleeding},
	{Term: "won't stop bleeding", Category: CategoryBleeding},
	{Term: "coughing up blood", Category: CategoryBleeding},

	{Term: "stroke", Category: CategoryStroke},
	{Term: "unconscious", Category: CategoryStroke},
	{Term: "seizure", Category: CategoryStroke},

	{Term: "emergency", Category: CategoryEmergency},
	{Term: "die", Category: CategoryEmergency},
}
