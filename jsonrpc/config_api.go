package jsonrpc

import "github.com/0xPolygon/zksync-test-node/node"

// ConfigAPI implements the config namespace, it changes how executions are
// reported while the node runs.
type ConfigAPI struct {
	node *node.Node
}

// NewConfigAPI creates the config namespace
func NewConfigAPI(n *node.Node) *ConfigAPI {
	return &ConfigAPI{node: n}
}

// GetShowCalls returns the current show_calls setting.
func (api *ConfigAPI) GetShowCalls() string {
	return api.node.GetShowCalls()
}

// GetShowOutputs returns the current show_outputs setting.
func (api *ConfigAPI) GetShowOutputs() bool {
	return api.node.GetShowOutputs()
}

// GetCurrentTimestamp returns the timestamp the next block would get without advancing it.
func (api *ConfigAPI) GetCurrentTimestamp() uint64 {
	return api.node.GetCurrentTimestamp()
}

// SetShowCalls sets show_calls and returns the resulting value.
func (api *ConfigAPI) SetShowCalls(value string) string {
	return api.node.SetShowCalls(value)
}

// SetShowOutputs sets show_outputs.
func (api *ConfigAPI) SetShowOutputs(value bool) bool {
	return api.node.SetShowOutputs(value)
}

// SetShowStorageLogs sets show_storage_logs and returns the resulting value.
func (api *ConfigAPI) SetShowStorageLogs(value string) string {
	return api.node.SetShowStorageLogs(value)
}

// SetShowVmDetails sets show_vm_details and returns the resulting value.
func (api *ConfigAPI) SetShowVmDetails(value string) string { //nolint:revive,stylecheck
	return api.node.SetShowVMDetails(value)
}

// SetShowGasDetails sets show_gas_details and returns the resulting value.
func (api *ConfigAPI) SetShowGasDetails(value string) string {
	return api.node.SetShowGasDetails(value)
}

// SetResolveHashes toggles the resolution of known hashes in traces.
func (api *ConfigAPI) SetResolveHashes(value bool) bool {
	return api.node.SetResolveHashes(value)
}

// SetLogLevel changes the log level, false when the level is unknown.
func (api *ConfigAPI) SetLogLevel(level string) bool {
	return api.node.SetLogLevel(level)
}

// SetLogging applies a tracing style directive such as "era_test_node=debug".
func (api *ConfigAPI) SetLogging(directive string) bool {
	return api.node.SetLogging(directive)
}
