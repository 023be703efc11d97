package bleadv

import (
	"github.com/pkg/errors"
	jsoniter "github.com/json-iterator/go"
)

var errDumpState = errors.New("bleadv: failed to marshal instance snapshot")

// instanceSnapshot is the JSON-friendly view of one instance exposed
// by DumpState, grounded on cache/cache.go's use of jsoniter to
// serialize persistent state — here used for diagnostics rather than
// persistence, since spec.md §6 rules out any persisted state.
type instanceSnapshot struct {
	InstID      uint8  `json:"instId"`
	InUse       bool   `json:"inUse"`
	Props       uint16 `json:"advertisingEventProperties"`
	TxPower     int8   `json:"txPower"`
	OwnAddrType string `json:"ownAddressType"`
	OwnAddress  string `json:"ownAddress"`
	TimeoutS    int    `json:"timeoutS"`
}

// DumpState renders the current instance table as JSON, for
// diagnostics (the cmd/bleadvctl "status" subcommand) and as a
// convenient golden-file format for tests.
func (m *Manager) DumpState() ([]byte, error) {
	done := make(chan []byte, 1)
	m.queue.Post(func() {
		snapshots := make([]instanceSnapshot, len(m.instances))
		for i, inst := range m.instances {
			snapshots[i] = instanceSnapshot{
				InstID:      inst.id,
				InUse:       inst.inUse,
				Props:       uint16(inst.props),
				TxPower:     inst.txPower,
				OwnAddrType: inst.ownAddrType.String(),
				OwnAddress:  inst.ownAddr.String(),
				TimeoutS:    inst.timeoutS,
			}
		}
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(snapshots, "", "  ")
		if err != nil {
			done <- nil
			return
		}
		done <- b
	})
	b := <-done
	if b == nil {
		return nil, errDumpState
	}
	return b, nil
}
