package storage

import "github.com/fxamacker/cbor/v2"

// encMode uses Core Deterministic Encoding so an unchanged container always
// serializes to the same bytes.
var encMode cbor.EncMode

// decMode rejects snapshots with duplicate map keys.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("storage: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshalSnapshot(s Snapshot) ([]byte, error) {
	return encMode.Marshal(s)
}

func unmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := decMode.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
