package tune

// Episode accumulates the per-agent state of one environment episode
// that callbacks can inspect.
type Episode struct {
	// AgentIDs lists the agents that have reported info, in the
	// order they first reported.
	AgentIDs []string

	// CustomMetrics holds metrics contributed by callbacks; they are
	// reported alongside the built-in episode metrics.
	CustomMetrics map[string]interface{}

	// TotalReward and Length summarize the episode.
	TotalReward float64
	Length      int

	lastInfos map[string]map[string]interface{}
}

// NewEpisode returns an empty episode.
func NewEpisode() *Episode {
	return &Episode{
		CustomMetrics: make(map[string]interface{}),
		lastInfos:     make(map[string]map[string]interface{}),
	}
}

// SetLastInfo records the most recent info mapping for an agent.
func (e *Episode) SetLastInfo(agentID string,
	info map[string]interface{}) {
	if _, seen := e.lastInfos[agentID]; !seen {
		e.AgentIDs = append(e.AgentIDs, agentID)
	}
	e.lastInfos[agentID] = info
}

// LastInfoFor returns the most recent info mapping recorded for an
// agent.
func (e *Episode) LastInfoFor(agentID string) map[string]interface{} {
	return e.lastInfos[agentID]
}

// Callbacks receives episode events during a trial.
type Callbacks interface {
	OnEpisodeEnd(*Episode)
}

// InfoToCustomMetrics copies the first agent's last info mapping,
// flattened to dotted keys, into the episode's custom metrics at
// episode end. At least one agent must have reported info by episode
// end; an episode with no agents indicates framework misuse and
// panics.
type InfoToCustomMetrics struct{}

// OnEpisodeEnd implements the Callbacks interface.
func (InfoToCustomMetrics) OnEpisodeEnd(episode *Episode) {
	first := episode.AgentIDs[0]

	for key, val := range Flatten(episode.LastInfoFor(first)) {
		episode.CustomMetrics[key] = val
	}
}
