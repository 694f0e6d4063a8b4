package eqwho

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// classNames maps lowercase class tokens from /who output to the canonical
// class names DKP imports expect. EverQuest shows level-dependent titles (a
// level 60 enchanter reads "Phantasmist"), so every title tier maps back to
// its base class.
var classNames = map[string]string{
	// Standard classes
	"warrior":       "Warrior",
	"paladin":       "Paladin",
	"ranger":        "Ranger",
	"shadow knight": "Shadow Knight",
	"monk":          "Monk",
	"bard":          "Bard",
	"rogue":         "Rogue",
	"shaman":        "Shaman",
	"necromancer":   "Necromancer",
	"wizard":        "Wizard",
	"magician":      "Magician",
	"enchanter":     "Enchanter",
	"druid":         "Druid",
	"cleric":        "Cleric",
	"beastlord":     "Beastlord",
	"berserker":     "Berserker",

	// Enchanter titles
	"phantasmist":   "Enchanter",
	"illusionist":   "Enchanter",
	"beguiler":      "Enchanter",
	"arch convoker": "Enchanter",
	"coercer":       "Enchanter",

	// Magician titles
	"conjurer":     "Magician",
	"elementalist": "Magician",
	"arch mage":    "Magician",

	// Wizard titles
	"warlock":  "Wizard",
	"sorcerer": "Wizard",
	"arcanist": "Wizard",

	// Warrior titles
	"myrmidon": "Warrior",
	"champion": "Warrior",
	"overlord": "Warrior",
	"warlord":  "Warrior",

	// Monk titles
	"master":       "Monk",
	"grandmaster":  "Monk",
	"transcendent": "Monk",

	// Paladin titles
	"templar":  "Paladin",
	"crusader": "Paladin",
	"knight":   "Paladin",
	"cavalier": "Paladin",

	// Shadow Knight titles
	"heretic":    "Shadow Knight",
	"reaver":     "Shadow Knight",
	"blackguard": "Shadow Knight",

	// Common abbreviations
	"sk":           "Shadow Knight",
	"shadowknight": "Shadow Knight",
	"enc":          "Enchanter",
	"mag":          "Magician",
	"wiz":          "Wizard",
	"nec":          "Necromancer",
	"war":          "Warrior",
	"pal":          "Paladin",
	"ran":          "Ranger",
	"rog":          "Rogue",
	"mnk":          "Monk",
	"shm":          "Shaman",
	"dru":          "Druid",
	"cle":          "Cleric",
	"bst":          "Beastlord",
	"ber":          "Berserker",

	// Alternative names
	"minstrel":   "Bard",
	"troubadour": "Bard",
	"unknown":    "Unknown",
}

// CanonicalClassName maps a class title or abbreviation to its canonical
// class name. Lookup is case-insensitive. Unknown tokens are returned
// unchanged so custom server classes still flow through.
func CanonicalClassName(token string) string {
	if canonical, ok := classNames[strings.ToLower(strings.TrimSpace(token))]; ok {
		return canonical
	}
	return token
}

// LoadClassMap reads extra class-name mappings from a YAML file of
// "token: Canonical Name" pairs. Keys are matched case-insensitively and
// take precedence over the built-in table, which lets emulator servers with
// custom titles feed the converter.
func LoadClassMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading class map: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing class map %s: %w", path, err)
	}

	m := make(map[string]string, len(raw))
	for token, canonical := range raw {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		m[token] = strings.TrimSpace(canonical)
	}
	return m, nil
}
