package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "battle_slot_http_requests_total"
	MetricNameHTTPRequestDuration  = "battle_slot_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "battle_slot_http_requests_in_flight"
)

// Game metric names
const (
	MetricNameSpinsTotal       = "battle_slot_spins_total"
	MetricNameTroniumWagered   = "battle_slot_tronium_wagered_total"
	MetricNameTroniumPaid      = "battle_slot_tronium_paid_total"
	MetricNameDamageDealt      = "battle_slot_damage_dealt_total"
	MetricNameMovesDrawn       = "battle_slot_moves_drawn_total"
	MetricNameBattlesFinished  = "battle_slot_battles_finished_total"
	MetricNameObservedRTP      = "battle_slot_observed_rtp"
	MetricNameExpectedPayout   = "battle_slot_expected_payout"
	MetricNameSpinDuration     = "battle_slot_spin_duration_seconds"
	MetricNameWebSocketClients = "battle_slot_websocket_clients"
)

// Label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelBoost  = "boost"
	LabelLines  = "lines"
	LabelMove   = "move"
	LabelResult = "result"
)

// Label values
const (
	ResultWin  = "win"
	ResultLose = "lose"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being processed"

	HelpTextSpinsTotal       = "Total number of spins by boost, line choice and result"
	HelpTextTroniumWagered   = "Total tronium spent on bets"
	HelpTextTroniumPaid      = "Total tronium paid out"
	HelpTextDamageDealt      = "Total damage dealt to villains"
	HelpTextMovesDrawn       = "Number of times each move was drawn"
	HelpTextBattlesFinished  = "Total number of villains defeated"
	HelpTextObservedRTP      = "Paid out tronium divided by wagered tronium since start"
	HelpTextExpectedPayout   = "Expected payout per line of the active move catalog"
	HelpTextSpinDuration     = "Time spent handling one spin including persistence"
	HelpTextWebSocketClients = "Connected websocket clients"
)

// HTTPLatencyBuckets request latency buckets in seconds
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// SpinLatencyBuckets spin latency buckets in seconds
var SpinLatencyBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
