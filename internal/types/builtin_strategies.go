package types

import "encoding/json"

// BuiltInStrategies are the activation strategies every installation ships
// with. They are seeded at startup and are not editable through the API.
func BuiltInStrategies() []*Strategy {
	return []*Strategy{
		builtIn("default", "Default on/off strategy."),
		builtIn("userWithId", "Active for users with a userId in the list.",
			StrategyParameter{Name: "userIds", Type: "list", Description: "Comma separated list of user ids", Required: true}),
		builtIn("gradualRolloutUserId", "Gradually activate for logged-in users, sticky on userId.",
			StrategyParameter{Name: "percentage", Type: "percentage", Required: true},
			StrategyParameter{Name: "groupId", Type: "string", Description: "Used to ensure a consistent rollout group", Required: true}),
		builtIn("gradualRolloutSessionId", "Gradually activate, sticky on sessionId.",
			StrategyParameter{Name: "percentage", Type: "percentage", Required: true},
			StrategyParameter{Name: "groupId", Type: "string", Description: "Used to ensure a consistent rollout group", Required: true}),
		builtIn("gradualRolloutRandom", "Randomly activate for a percentage of requests, no stickiness.",
			StrategyParameter{Name: "percentage", Type: "percentage", Required: true}),
		builtIn("remoteAddress", "Active for remote addresses in the list.",
			StrategyParameter{Name: "IPs", Type: "list", Description: "List of IPs to enable the feature for", Required: true}),
		builtIn("applicationHostname", "Active for client instances with a hostname in the list.",
			StrategyParameter{Name: "hostNames", Type: "list", Description: "List of hostnames to enable the feature for", Required: true}),
	}
}

func builtIn(name, description string, params ...StrategyParameter) *Strategy {
	raw, _ := json.Marshal(params)
	if params == nil {
		raw = []byte("[]")
	}
	return &Strategy{
		Name:        name,
		Description: description,
		Parameters:  raw,
		Editable:    false,
	}
}
