package node

import (
	"strings"

	"github.com/0xPolygon/zksync-test-node/log"
)

// GetShowCalls returns the current call display setting, e.g. "User"
func (n *Node) GetShowCalls() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return displayName(n.inner.knobs.ShowCalls)
}

// GetShowOutputs reports whether call outputs are printed
func (n *Node) GetShowOutputs() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inner.knobs.ShowOutputs
}

// GetCurrentTimestamp returns the timestamp of the last sealed block
func (n *Node) GetCurrentTimestamp() uint64 {
	return n.CurrentTimestamp()
}

// setKnob parses value and stores it with set. Unknown values are logged and
// leave the setting untouched. The resulting setting is returned.
func setKnob[T ~string](n *Node, value string, parse func(string) (T, error), get func(*Knobs) *T) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	current := get(&n.inner.knobs)
	v, err := parse(value)
	if err != nil {
		log.Warnf("ignoring knob value: %v", err)
		return displayName(*current)
	}
	*current = v
	return displayName(v)
}

// SetShowCalls changes which calls are printed and returns the resulting setting
func (n *Node) SetShowCalls(value string) string {
	return setKnob(n, value, ParseShowCalls, func(k *Knobs) *ShowCalls { return &k.ShowCalls })
}

// SetShowStorageLogs changes which storage accesses are printed
func (n *Node) SetShowStorageLogs(value string) string {
	return setKnob(n, value, ParseShowStorageLogs, func(k *Knobs) *ShowStorageLogs { return &k.ShowStorageLogs })
}

// SetShowVMDetails toggles the VM statistics output
func (n *Node) SetShowVMDetails(value string) string {
	return setKnob(n, value, ParseShowVMDetails, func(k *Knobs) *ShowVMDetails { return &k.ShowVMDetails })
}

// SetShowGasDetails toggles the gas breakdown output
func (n *Node) SetShowGasDetails(value string) string {
	return setKnob(n, value, ParseShowGasDetails, func(k *Knobs) *ShowGasDetails { return &k.ShowGasDetails })
}

// SetShowOutputs toggles printing call outputs
func (n *Node) SetShowOutputs(value bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inner.knobs.ShowOutputs = value
	return value
}

// SetResolveHashes toggles resolving selectors and addresses in the call output
func (n *Node) SetResolveHashes(value bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inner.knobs.ResolveHashes = value
	return value
}

// SetLogLevel changes the level of every logger
func (n *Node) SetLogLevel(level string) bool {
	if err := log.SetLevel(level); err != nil {
		log.Warnf("ignoring log level: %v", err)
		return false
	}
	return true
}

// SetLogging accepts a comma separated list of target=level directives.
// Targets are not distinguished, the last level wins.
func (n *Node) SetLogging(directive string) bool {
	var level string
	for _, part := range strings.Split(directive, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.LastIndex(part, "="); i >= 0 {
			part = part[i+1:]
		}
		level = part
	}
	if level == "" {
		return false
	}
	return n.SetLogLevel(level)
}
