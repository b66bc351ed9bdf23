// Package dispatcher paces and fans out signed transactions across a set
// of node endpoints, adapting its send rate to observed chain health.
package dispatcher

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ckb-tps-bench/bench/internal/log"
	"github.com/ckb-tps-bench/bench/internal/rpcclient"
	"github.com/ckb-tps-bench/bench/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tunables governing the rate controller, named after spec.md's own
// constants.
const (
	EmptySendingPunish = 30
	LongSendingPunish  = 5

	EstimatePeriod   = 5 * time.Second
	LatencyThreshold = 200 * time.Millisecond

	MaxSleepTime   = time.Second
	MinSleepTime   = time.Duration(0)
	MaxCoefficient = 64

	EndpointQueueSize = 1000
	PoolFullBackoff   = time.Second
	WaitReadyTimeout  = 30 * time.Minute
	waitReadyPoll     = 100 * time.Millisecond
)

// sendSampleRate: at full TPS a benchmark run dispatches far too many sends
// a second to log every one of them even at debug level, so per-send
// tracing is sampled at 1-in-200.
const sendSampleRate = 200

var (
	metricSleepTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tps_bench_dispatcher_sleep_time_seconds",
		Help: "Current inter-send interval of the rate controller.",
	})
	metricCoefficient = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tps_bench_dispatcher_sleep_coefficient",
		Help: "Current signed adjustment coefficient of the rate controller.",
	})
	metricDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tps_bench_dispatcher_dispatched_total",
		Help: "Transactions handed to each endpoint's sender goroutine.",
	}, []string{"endpoint"})
	metricBackoffs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tps_bench_dispatcher_pool_full_backoffs_total",
		Help: "Retries caused by a PoolIsFull/TransactionPoolFull response.",
	}, []string{"endpoint"})
)

// Sender is the subset of *rpcclient.Client a per-endpoint goroutine sends
// transactions through.
type Sender interface {
	SendTransaction(tx types.Transaction) (types.Hash, error)
}

// TipSource reports the confirmed chain tip the controller paces against.
type TipSource interface {
	GetTipBlockNumber() (uint64, error)
}

// Config holds the controller's tuning knobs; spec.md leaves these as
// deployment-specific constants rather than hardcoding them.
type Config struct {
	// AdjustMisbehaviorThreshold: misbehavior score at or above which the
	// controller slows down.
	AdjustMisbehaviorThreshold int
	// AdjustCycle: blocks of uncontested tip advance before speeding up.
	AdjustCycle uint64
	// AdjustStep: per-adjustment sleep-time delta, scaled by the signed
	// coefficient.
	AdjustStep time.Duration
	// QueueTarget: incoming-queue length wait_until_ready waits to refill
	// to before resuming dispatch.
	QueueTarget int
}

// latencySample is one dispatch-call timing, kept for EstimatePeriod to
// compute a rolling average send latency.
type latencySample struct {
	at time.Time
	d  time.Duration
}

// Dispatcher owns the incoming transaction queue, the adaptive sleep-time
// controller, and the round-robin fan-out to per-endpoint sender
// goroutines.
type Dispatcher struct {
	cfg       Config
	tip       TipSource
	in        chan types.Transaction
	endpoints []chan types.Transaction
	senders   []Sender
	labels    []string
	cursor    atomic.Uint64

	mu               sync.Mutex
	sleepTime        time.Duration
	sleepCoefficient int
	lastAdjustNumber uint64
	lastEstimate     time.Time
	misbehavior      int
	latencies        []latencySample

	sendLog zerolog.Logger
}

// New builds a Dispatcher sending through senders (one sender per
// endpoint, in fan-out order) and paced against tip.
func New(cfg Config, tip TipSource, senders []Sender, labels []string) *Dispatcher {
	endpoints := make([]chan types.Transaction, len(senders))
	for i := range endpoints {
		endpoints[i] = make(chan types.Transaction, EndpointQueueSize)
	}
	return &Dispatcher{
		cfg:       cfg,
		tip:       tip,
		in:        make(chan types.Transaction, cfg.QueueTarget*2),
		endpoints: endpoints,
		senders:   senders,
		labels:    labels,
		sendLog:   log.Sampled(log.Dispatcher, sendSampleRate),
	}
}

// Submit enqueues a signed transaction for dispatch, blocking if the
// incoming queue is full.
func (d *Dispatcher) Submit(tx types.Transaction) {
	d.in <- tx
}

// QueueLen reports the current incoming-queue length.
func (d *Dispatcher) QueueLen() int {
	return len(d.in)
}

// SleepTime returns the controller's current inter-send interval.
func (d *Dispatcher) SleepTime() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sleepTime
}

// Coefficient returns the controller's current signed adjustment
// coefficient.
func (d *Dispatcher) Coefficient() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sleepCoefficient
}

// Run drives the per-tick pacing loop and the per-endpoint sender
// goroutines until stop is closed.
func (d *Dispatcher) Run(stop <-chan struct{}) {
	var wg sync.WaitGroup
	for i := range d.endpoints {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.senderLoop(i, stop)
		}(i)
	}

	if tip, err := d.tip.GetTipBlockNumber(); err == nil {
		d.mu.Lock()
		d.lastAdjustNumber = tip
		d.lastEstimate = time.Now()
		d.mu.Unlock()
	}

	for {
		tx, waited, ok := d.receiveNext(stop)
		if !ok {
			break
		}
		if waited {
			d.addMisbehavior(EmptySendingPunish)
		}

		time.Sleep(d.SleepTime())

		start := time.Now()
		d.dispatch(tx)
		d.recordLatency(time.Since(start))

		d.maybeAdjust()
	}

	wg.Wait()
}

// receiveNext pops the next queued transaction: a non-blocking try first,
// then a blocking wait that counts as starvation (EMPTY_SENDING_PUNISH).
// ok is false only when stop fired before a transaction arrived.
func (d *Dispatcher) receiveNext(stop <-chan struct{}) (tx types.Transaction, waited, ok bool) {
	select {
	case tx = <-d.in:
		return tx, false, true
	default:
	}

	select {
	case tx = <-d.in:
		return tx, true, true
	case <-stop:
		return types.Transaction{}, false, false
	}
}

func (d *Dispatcher) addMisbehavior(n int) {
	d.mu.Lock()
	d.misbehavior += n
	d.mu.Unlock()
}

func (d *Dispatcher) recordLatency(elapsed time.Duration) {
	now := time.Now()
	d.mu.Lock()
	d.latencies = append(d.latencies, latencySample{at: now, d: elapsed})
	d.pruneLatenciesLocked(now)
	d.mu.Unlock()
}

func (d *Dispatcher) pruneLatenciesLocked(now time.Time) {
	cutoff := now.Add(-EstimatePeriod)
	i := 0
	for i < len(d.latencies) && d.latencies[i].at.Before(cutoff) {
		i++
	}
	d.latencies = d.latencies[i:]
}

func (d *Dispatcher) averageLatencyLocked() time.Duration {
	if len(d.latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range d.latencies {
		total += s.d
	}
	return total / time.Duration(len(d.latencies))
}

// maybeAdjust runs the every-EstimatePeriod latency check and adjustment
// call described in spec.md's controller loop.
func (d *Dispatcher) maybeAdjust() {
	d.mu.Lock()
	if time.Since(d.lastEstimate) < EstimatePeriod {
		d.mu.Unlock()
		return
	}
	d.lastEstimate = time.Now()
	if d.averageLatencyLocked() > LatencyThreshold {
		d.misbehavior += LongSendingPunish
	}
	misbehavior := d.misbehavior
	d.mu.Unlock()

	d.adjust(misbehavior)
}

// adjust implements the controller's direction decision and, if the
// sleep time changed, resets misbehavior and blocks via waitUntilReady.
func (d *Dispatcher) adjust(misbehavior int) {
	tip, err := d.tip.GetTipBlockNumber()
	if err != nil {
		log.Dispatcher.Warn().Err(err).Msg("get_tip_block_number failed, skipping adjustment")
		return
	}

	d.mu.Lock()
	var direction int
	switch {
	case misbehavior >= d.cfg.AdjustMisbehaviorThreshold:
		direction = 1
	case tip-d.lastAdjustNumber >= d.cfg.AdjustCycle:
		direction = -1
	default:
		d.mu.Unlock()
		return
	}

	d.applyDirectionLocked(direction)
	d.misbehavior = 0
	d.lastAdjustNumber = tip
	sleepTime := d.sleepTime
	coefficient := d.sleepCoefficient
	d.mu.Unlock()

	metricSleepTime.Set(sleepTime.Seconds())
	metricCoefficient.Set(float64(coefficient))
	log.Dispatcher.Info().
		Int("direction", direction).
		Dur("sleep_time", sleepTime).
		Int("coefficient", coefficient).
		Msg("adjusted send rate")

	d.waitUntilReady(tip)
}

// applyDirectionLocked updates sleepCoefficient (doubling on a repeated
// direction, resetting to ±1 on a reversal, capped at ±MaxCoefficient)
// and sleepTime (capped to [MinSleepTime, MaxSleepTime]). Caller holds mu.
func (d *Dispatcher) applyDirectionLocked(direction int) {
	if direction > 0 {
		if d.sleepCoefficient > 0 {
			d.sleepCoefficient = minInt(d.sleepCoefficient*2, MaxCoefficient)
		} else {
			d.sleepCoefficient = 1
		}
	} else {
		if d.sleepCoefficient < 0 {
			d.sleepCoefficient = maxInt(d.sleepCoefficient*2, -MaxCoefficient)
		} else {
			d.sleepCoefficient = -1
		}
	}

	d.sleepTime += time.Duration(d.sleepCoefficient) * d.cfg.AdjustStep
	if d.sleepTime > MaxSleepTime {
		d.sleepTime = MaxSleepTime
	}
	if d.sleepTime < MinSleepTime {
		d.sleepTime = MinSleepTime
	}
}

// waitUntilReady blocks until the incoming queue has refilled to
// QueueTarget and the tip has advanced at least 2 blocks since tipAtStart,
// or WaitReadyTimeout elapses.
func (d *Dispatcher) waitUntilReady(tipAtStart uint64) {
	deadline := time.Now().Add(WaitReadyTimeout)
	for time.Now().Before(deadline) {
		tip, err := d.tip.GetTipBlockNumber()
		if err == nil && tip >= tipAtStart+2 && d.QueueLen() >= d.cfg.QueueTarget {
			return
		}
		time.Sleep(waitReadyPoll)
	}
	log.Dispatcher.Warn().Msg("wait_until_ready timed out after 30m")
}

// dispatch round-robins tx across endpoint channels, skipping any that are
// currently full, blocking on the first endpoint in rotation only if every
// channel was full on the first pass. The shared cursor advances exactly
// once per call — every retry within a single call is scanned locally off
// that one starting point — so the rotation's starting endpoint still
// advances uniformly across calls regardless of how many full channels any
// individual call had to skip past. Incrementing the shared cursor once per
// attempt instead (as an earlier revision did) lets a single call consume
// several rotation slots, and when that skip count is periodic relative to
// n it can make some endpoints' channels never come up first at all.
func (d *Dispatcher) dispatch(tx types.Transaction) {
	n := len(d.endpoints)
	if n == 0 {
		return
	}
	start := int(d.cursor.Add(1) - 1)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		select {
		case d.endpoints[idx] <- tx:
			metricDispatched.WithLabelValues(d.label(idx)).Inc()
			return
		default:
		}
	}
	idx := start % n
	d.endpoints[idx] <- tx
	metricDispatched.WithLabelValues(d.label(idx)).Inc()
}

func (d *Dispatcher) label(i int) string {
	if i < len(d.labels) {
		return d.labels[i]
	}
	return ""
}

// senderLoop drains one endpoint's channel, retrying indefinitely on a
// pool-full response and panicking on any other send error. No error other
// than pool-full is skipped, including one caused by a re-org.
func (d *Dispatcher) senderLoop(i int, stop <-chan struct{}) {
	ch := d.endpoints[i]
	for {
		select {
		case tx := <-ch:
			d.sendWithRetry(i, tx, stop)
		case <-stop:
			return
		}
	}
}

func (d *Dispatcher) sendWithRetry(i int, tx types.Transaction, stop <-chan struct{}) {
	for {
		hash, err := d.senders[i].SendTransaction(tx)
		if err == nil {
			d.sendLog.Debug().Str("endpoint", d.label(i)).Stringer("tx_hash", hash).Msg("sent transaction")
			return
		}
		if !rpcclient.IsPoolFull(err) {
			panic(err)
		}
		metricBackoffs.WithLabelValues(d.label(i)).Inc()
		select {
		case <-time.After(PoolFullBackoff):
		case <-stop:
			return
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
