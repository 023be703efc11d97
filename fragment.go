package bleadv

// FragmentOp is the four-value operation tag the controller uses to
// tell fragments of a single logical payload apart.
type FragmentOp uint8

const (
	FragmentIntermediate FragmentOp = 0x00
	FragmentFirst        FragmentOp = 0x01
	FragmentLast         FragmentOp = 0x02
	FragmentComplete     FragmentOp = 0x03
)

// maxFragmentLen is the largest payload a single HCI advertising-data
// command can carry.
const maxFragmentLen = 251

// fragmentSender issues one fragment and reports its completion
// status; it is the capability the Fragmenter drives, matching the
// teacher's pattern of threading a narrow function-typed collaborator
// through a generic algorithm (see linux/hci/hci.go's Send).
type fragmentSender func(op FragmentOp, length uint8, data []byte, cb func(status Status))

// fragmentAll splits data into consecutive ≤251 byte fragments and
// sends them strictly sequentially through send, short-circuiting on
// the first non-zero status. done fires exactly once. A zero-length
// payload still issues one FragmentComplete call carrying no bytes —
// the first iteration always runs.
func fragmentAll(data []byte, send fragmentSender, done func(status Status)) {
	fragmentStep(true, data, 0, send, done, StatusSuccess)
}

func fragmentStep(isFirst bool, data []byte, offset int, send fragmentSender, done func(status Status), status Status) {
	total := len(data)
	if !status.ok() || (!isFirst && offset == total) {
		done(status)
		return
	}

	remaining := total - offset
	moreThanOne := remaining > maxFragmentLen

	var op FragmentOp
	switch {
	case isFirst && moreThanOne:
		op = FragmentFirst
	case isFirst && !moreThanOne:
		op = FragmentComplete
	case !isFirst && moreThanOne:
		op = FragmentIntermediate
	default:
		op = FragmentLast
	}

	length := remaining
	if moreThanOne {
		length = maxFragmentLen
	}
	newOffset := offset + length

	send(op, uint8(length), data[offset:newOffset], func(status Status) {
		fragmentStep(false, data, newOffset, send, done, status)
	})
}
