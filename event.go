package bleadv

// ACLObserver is the ACL/connection-layer collaborator notified, with
// the set's own address, whenever an advertising set terminates while
// privacy is enabled (spec.md §4.8). It is optional; WithACLObserver installs one, and the
// default is a no-op.
type ACLObserver interface {
	UpdateConnectionAddress(connHandle uint16, addr Address)
}

type noopACLObserver struct{}

func (noopACLObserver) UpdateConnectionAddress(uint16, Address) {}

// OnAdvertisingSetTerminated is component C7, registered once with
// the HCI layer at construction via SetAdvertisingSetTerminatedObserver.
// It runs on the manager's serial queue like every other mutation.
func (m *Manager) OnAdvertisingSetTerminated(status Status, handle uint8, connHandle uint16, numCompletedExtendedAdvEvents uint8) {
	m.queue.Post(func() {
		if !m.validInstanceID(handle) {
			m.logger.Errorf("bleadv: terminated event for bad instance id %d", handle)
			return
		}
		inst := m.instances[handle]

		if m.privacyEnabled {
			m.acl().UpdateConnectionAddress(connHandle, inst.ownAddr)
		}

		if !inst.inUse {
			return
		}

		if !inst.directed() {
			m.hci.Enable(true, handle, 0x0000, 0x00, func(Status) {})
		} else {
			inst.inUse = false
		}
	})
}

func (m *Manager) acl() ACLObserver {
	if m.aclObserver == nil {
		return noopACLObserver{}
	}
	return m.aclObserver
}
