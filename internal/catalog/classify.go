package catalog

import "strings"

// petTypeRule pairs a label with the keywords that imply it.
type petTypeRule struct {
	label    PetType
	keywords []string
}

// Classification is first-match-wins over this list, so Dog outranks Cat
// when both keyword sets match.
var petTypeRules = []petTypeRule{
	{PetTypeDog, []string{"dog", "puppy", "canine"}},
	{PetTypeCat, []string{"cat", "kitten", "feline"}},
	{PetTypeFish, []string{"fish", "aquarium", "aquatic"}},
	{PetTypeBird, []string{"bird", "parakeet", "avian"}},
}

// ClassifyPetType assigns a label by case-insensitive substring match of each
// rule's keywords against the product URL and extracted title. The first rule
// with any hit wins; no hit yields Other.
func ClassifyPetType(url, title string) PetType {
	haystacks := []string{strings.ToLower(url), strings.ToLower(title)}
	for _, rule := range petTypeRules {
		for _, kw := range rule.keywords {
			for _, h := range haystacks {
				if strings.Contains(h, kw) {
					return rule.label
				}
			}
		}
	}
	return PetTypeOther
}
