package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"slices"
	"testing"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

// result of measuring one target over every step.
type result struct {
	name         string
	mean, stddev float64 // ns per op
	bytes        uint64  // allocated per op, averaged over steps
	height       int
}

var __r1 bool

// delQry builds a set from all, then deletes all[rmv:] and queries all[:rmv]
// and qry random keys below the largest deleted one.
func delQry(b *testing.B, tg target, all []int, rmv int, rg *rand.Rand) {
	m := slices.Max(all[rmv:])
	b.ResetTimer()
	for range b.N {
		b.StopTimer()
		s := tg.make(uint32(len(all)))
		for _, k := range all {
			s.set(k)
		}
		b.StartTimer()
		for _, k := range all[rmv:] {
			s.del(k)
		}
		for _, k := range all[:rmv] {
			__r1 = s.has(k)
		}
		for range rmv {
			__r1 = s.has(rg.Intn(m))
		}
	}
}

func meanStddev(xs []float64) (mean, stddev float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		stddev += d * d
	}
	return mean, math.Sqrt(stddev / float64(len(xs)))
}

// measure runs every step of w for tg. bar advances once per step.
func measure(w Workload, tg target, bar *progressbar.ProgressBar) result {
	rg := rand.New(rand.NewSource(w.Seed))
	all := make([]int, w.Keys)
	for i := range all {
		all[i] = rg.Int()
	}
	var ns []float64
	var bytes uint64
	for i := uint32(1); i < w.Steps; i++ {
		rmv := int(w.Keys / w.Steps * i)
		br := testing.Benchmark(func(b *testing.B) { delQry(b, tg, all, rmv, rg) })
		ns = append(ns, float64(br.NsPerOp()))
		bytes += uint64(br.AllocedBytesPerOp())
		log.Debugf("%s step %d: %s", tg.name, i, br)
		_ = bar.Add(1)
	}
	r := result{name: tg.name, bytes: bytes / uint64(len(ns))}
	r.mean, r.stddev = meanStddev(ns)
	if t, ok := tg.make(w.Keys).(treeSet); ok {
		for _, k := range all {
			t.set(k)
		}
		r.height = t.t.Height()
	}
	return r
}

func run(w Workload, out io.Writer, quiet bool) []result {
	ts := targets(w)
	bar := progressbar.NewOptions(len(ts)*int(w.Steps-1),
		progressbar.OptionSetDescription("measuring"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(!quiet),
		progressbar.OptionClearOnFinish(),
	)
	log.Infof("measuring %s keys in %d steps on %d targets", humanize.Comma(int64(w.Keys)), w.Steps, len(ts))
	rs := make([]result, 0, len(ts))
	for _, tg := range ts {
		rs = append(rs, measure(w, tg, bar))
	}
	_ = bar.Finish()
	report(out, rs)
	return rs
}

func report(out io.Writer, rs []result) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "target\tmean/op\tstddev/op\talloc/op\theight")
	for _, r := range rs {
		h := "-"
		if r.height > 0 {
			h = fmt.Sprint(r.height)
		}
		fmt.Fprintf(tw, "%s\t%v\t%v\t%s\t%s\n", r.name,
			time.Duration(r.mean).Round(time.Microsecond), time.Duration(r.stddev).Round(time.Microsecond),
			humanize.IBytes(r.bytes), h)
	}
	tw.Flush()
}
