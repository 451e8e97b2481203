package registry

// Result codes returned by command callbacks. Zero is success; failures are
// negative errno values so scripts can tell causes apart.
const (
	ResultOK              = 0
	ResultNotFound        = -2
	ResultIO              = -5
	ResultExists          = -17
	ResultInvalidArgument = -22
)
