package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/homevault-project/homevault-go/pkg/model"
)

// unassignedHome labels the section for accessories without a home.
const unassignedHome = "Unassigned"

// WriteText renders a human-readable report: one titled section per
// home with the devices and their joined codes indented beneath, then a
// flat section listing every saved code.
func WriteText(w io.Writer, accessories []model.AccessoryRecord, codes []model.SetupCodeRecord) error {
	pairs, _ := JoinCodes(accessories, codes)

	byHome := make(map[string][]Pair)
	for _, pair := range pairs {
		home := pair.Accessory.Home
		if home == "" {
			home = unassignedHome
		}
		byHome[home] = append(byHome[home], pair)
	}

	homes := make([]string, 0, len(byHome))
	for home := range byHome {
		homes = append(homes, home)
	}
	sort.Strings(homes)

	fmt.Fprintf(w, "Accessory Report (%s)\n", time.Now().Format("2006-01-02 15:04"))

	for _, home := range homes {
		fmt.Fprintf(w, "\n%s\n", home)
		for _, pair := range byHome[home] {
			if err := writeDevice(w, pair); err != nil {
				return err
			}
		}
	}

	if len(codes) > 0 {
		fmt.Fprintf(w, "\nSetup Codes\n")
		for _, code := range codes {
			name := code.AccessoryName
			if name == "" {
				name = "(unnamed)"
			}
			if _, err := fmt.Fprintf(w, "  %s: %s (%s)\n", name, code.Code, code.CodeFormat.Label()); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeDevice(w io.Writer, pair Pair) error {
	acc := pair.Accessory
	if _, err := fmt.Fprintf(w, "  %s\n", acc.Name); err != nil {
		return err
	}

	writeField(w, "Manufacturer", acc.Manufacturer)
	writeField(w, "Model", acc.Model)
	writeField(w, "Category", acc.Category)
	writeField(w, "Room", acc.Room)
	if pair.Code != nil {
		writeField(w, "Setup Code", pair.Code.Code)
		writeField(w, "Code Location", pair.Code.LocationHint)
	} else {
		writeField(w, "Setup Code", acc.SetupCode)
	}
	writeField(w, "Reachable", reachableLabel(acc.IsReachable))
	if !acc.LastSeen.IsZero() {
		writeField(w, "Last Seen", acc.LastSeen.Format("2006-01-02 15:04"))
	}
	return nil
}

func writeField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "    %s: %s\n", label, value)
}
