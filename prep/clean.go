package prep

import (
	"regexp"

	"github.com/dcshock/tabprep/table"
)

// IDColumn is the identifier column removed by Clean.
const IDColumn = "id"

// unnamed matches index artifacts such as "Unnamed: 32" left by CSV exports.
var unnamed = regexp.MustCompile(`^Unnamed`)

// Clean drops the id column and every "Unnamed*" column. It returns the cleaned
// table and the names that were dropped; both removals are no-ops when absent.
func Clean(raw *table.Raw) (*table.Raw, []string, error) {
	var keep, dropped []string
	for _, name := range raw.Names() {
		if name == IDColumn || unnamed.MatchString(name) {
			dropped = append(dropped, name)
			continue
		}
		keep = append(keep, name)
	}
	if len(dropped) == 0 {
		return raw, nil, nil
	}
	out, err := raw.Select(keep)
	if err != nil {
		return nil, nil, err
	}
	return out, dropped, nil
}
