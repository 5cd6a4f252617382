//The package provides measurement values with the units they were set in.
//
//Every value is kept in the SI unit of its quantity and converted on demand.
package unit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//unitInfo describes one measurement unit of a quantity
type unitInfo struct {
	symbol   string   //symbol used when the value is printed
	factor   float64  //number of SI units in one unit
	accuracy int      //number of decimals printed
	aliases  []string //suffixes accepted by the parser, lower case
}

//quantity is the set of units one kind of value may be measured in
type quantity struct {
	name  string
	units map[byte]unitInfo
}

func (q quantity) info(units byte) (unitInfo, error) {
	u, ok := q.units[units]
	if !ok {
		return unitInfo{}, fmt.Errorf("%s: unit %d is not supported", q.name, units)
	}
	return u, nil
}

func (q quantity) toBase(value float64, units byte) (float64, error) {
	u, err := q.info(units)
	if err != nil {
		return 0, err
	}
	return value * u.factor, nil
}

func (q quantity) fromBase(value float64, units byte) (float64, error) {
	u, err := q.info(units)
	if err != nil {
		return 0, err
	}
	return value / u.factor, nil
}

func (q quantity) format(value float64, units byte) string {
	u, err := q.info(units)
	if err != nil {
		return "!error: default units aren't correct"
	}
	return strconv.FormatFloat(value/u.factor, 'f', u.accuracy, 64) + u.symbol
}

//suffixes returns the aliases of all units ordered from the longest one
//so that "km" is tried before "m"
func (q quantity) suffixes() []string {
	var all []string
	for _, u := range q.units {
		all = append(all, u.aliases...)
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) > len(all[j])
		}
		return all[i] < all[j]
	})
	return all
}

func (q quantity) unitByAlias(alias string) (byte, bool) {
	for id, u := range q.units {
		for _, a := range u.aliases {
			if a == alias {
				return id, true
			}
		}
	}
	return 0, false
}

//parse reads a number followed by an optional unit suffix.
//
//Without a suffix the value is taken in the default units.
func (q quantity) parse(s string, defaultUnits byte) (float64, byte, error) {
	text := strings.TrimSpace(s)
	lower := strings.ToLower(text)
	units := defaultUnits
	for _, suffix := range q.suffixes() {
		if strings.HasSuffix(lower, suffix) {
			number := strings.TrimSpace(text[:len(text)-len(suffix)])
			if _, err := strconv.ParseFloat(number, 64); err != nil {
				continue
			}
			units, _ = q.unitByAlias(suffix)
			text = number
			break
		}
	}
	if _, err := q.info(units); err != nil {
		return 0, 0, err
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %q is not a number with a known unit", q.name, s)
	}
	return value, units, nil
}

func (q quantity) symbol(units byte) string {
	u, err := q.info(units)
	if err != nil {
		return "?"
	}
	return u.symbol
}
