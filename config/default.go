package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development" # "production" or "development"
Level = "info"
Outputs = ["stderr"]
	[Log.File]
	MaxSize = 0
	MaxBackups = 3
	MaxAge = 28

[RPC]
Host = "0.0.0.0"
Port = 8011
ReadTimeout = "60s"
WriteTimeout = "60s"
HealthCheckEndpoint = false
CORSAllowedOrigins = ["*"]
BatchRequestsLimit = 0
BatchResponseMaxSize = 0

[Node]
ChainID = 0
L1GasPrice = 50000000000
L2GasPrice = 250000000
NoMining = false
BlockTime = "0s"
AutoImpersonate = false
RichAccountBalance = ""
	[Node.Knobs]
	ShowCalls = "none"
	ShowOutputs = false
	ShowStorageLogs = "none"
	ShowVMDetails = "none"
	ShowGasDetails = "none"
	ResolveHashes = false
	[Node.Interop]
	Enabled = false
	Dir = ""

[Fork]
URL = ""
Timeout = "30s"

[Cache]
Type = "disk"
Dir = ".cache"
Reset = false
DSN = ""
Size = 10000

[Metrics]
Enabled = false
`
