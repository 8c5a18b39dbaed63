package export

import "github.com/homevault-project/homevault-go/pkg/model"

// Pair is one accessory with its joined setup code, if any.
type Pair struct {
	Accessory model.AccessoryRecord

	// Code is nil when no code matched the accessory.
	Code *model.SetupCodeRecord
}

// JoinCodes matches codes to accessories. For each accessory, a code is
// matched by correlation id first (code.LinkedAccessoryID against
// accessory.HomeKitUUID, both non-empty), then by exact name. Each code
// joins at most one accessory. Codes left unmatched are returned as
// orphans in their original order.
func JoinCodes(accessories []model.AccessoryRecord, codes []model.SetupCodeRecord) ([]Pair, []model.SetupCodeRecord) {
	used := make([]bool, len(codes))

	pairs := make([]Pair, 0, len(accessories))
	for _, acc := range accessories {
		pair := Pair{Accessory: acc}
		if i := matchCode(acc, codes, used); i >= 0 {
			used[i] = true
			code := codes[i]
			pair.Code = &code
		}
		pairs = append(pairs, pair)
	}

	var orphans []model.SetupCodeRecord
	for i, code := range codes {
		if !used[i] {
			orphans = append(orphans, code)
		}
	}
	return pairs, orphans
}

// matchCode returns the index of the first unused code matching the
// accessory, or -1.
func matchCode(acc model.AccessoryRecord, codes []model.SetupCodeRecord, used []bool) int {
	if acc.HomeKitUUID != "" {
		for i, code := range codes {
			if !used[i] && code.LinkedAccessoryID == acc.HomeKitUUID {
				return i
			}
		}
	}
	for i, code := range codes {
		if !used[i] && code.AccessoryName == acc.Name {
			return i
		}
	}
	return -1
}
