package sim_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

var _ = Describe("Simulator", func() {
	var (
		model *sim.Model
		s     *sim.Simulator
	)

	BeforeEach(func() {
		var err error
		model, err = sim.Load("../../aircraft/trainer.yaml")
		Expect(err).NotTo(HaveOccurred())
		s, err = sim.New(model, rigidbody.Level(60, 500), sim.Options{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps the attitude quaternion normalized", func() {
		src := control.Constant{0: 0.3, 2: -0.2, 3: 0.8}
		_, err := s.Run(context.Background(), src, sim.RunConfig{Dt: 0.002, Duration: 2})
		Expect(err).NotTo(HaveOccurred())

		q := s.Snapshot().State.Attitude
		norm := q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag
		Expect(norm).To(BeNumerically("~", 1, 1e-9))
	})

	It("rolls left under positive aileron", func() {
		_, err := s.Run(context.Background(), control.Constant{0: 1, 3: 0.6}, sim.RunConfig{Dt: 0.01, Duration: 0.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Snapshot().Flight().Roll).To(BeNumerically("<", 0))
	})

	It("pitches nose up under negative elevator", func() {
		_, err := s.Run(context.Background(), control.Constant{1: -1, 3: 0.6}, sim.RunConfig{Dt: 0.01, Duration: 0.3})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Snapshot().State.Rates.Y).To(BeNumerically(">", 0))
	})

	It("lets other goroutines read snapshots while running", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var wg sync.WaitGroup
		reads := 0
		wg.Add(1)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for ctx.Err() == nil {
				snap := s.Snapshot()
				Expect(snap.State.Attitude.Real).To(BeNumerically(">", 0))
				reads++
			}
		}()

		_, err := s.Run(ctx, control.Constant{3: 0.6}, sim.RunConfig{Dt: 0.005, Duration: 1})
		Expect(err).NotTo(HaveOccurred())
		cancel()
		wg.Wait()
		Expect(reads).To(BeNumerically(">", 0))
	})

	Context("with a publisher", func() {
		It("delivers snapshots to a reader that keeps up", func() {
			pub := sim.NewPublisher()
			ch, unsubscribe := pub.Subscribe(8)
			defer unsubscribe()
			s.AddObserver(pub)

			seen := make(chan int, 1)
			go func() {
				n := 0
				for range ch {
					n++
				}
				seen <- n
			}()

			res, err := s.Run(context.Background(), control.Constant{3: 0.6}, sim.RunConfig{Dt: 0.01, Duration: 0.2, RealTime: true})
			Expect(err).NotTo(HaveOccurred())
			pub.Close()

			var n int
			Eventually(seen, time.Second).Should(Receive(&n))
			Expect(int64(n) + pub.Dropped()).To(Equal(int64(res.StepsTaken)))
		})
	})

	Context("stopping", func() {
		It("finishes the step in flight", func() {
			var steps []int
			s.AddObserver(sim.ObserverFunc(func(snap *sim.Snapshot) {
				steps = append(steps, snap.Step)
				if snap.Step == 10 {
					s.Stop()
				}
			}))

			res, err := s.Run(context.Background(), control.Constant{}, sim.RunConfig{Dt: 0.01, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(10))
			Expect(steps).To(HaveLen(10))
			Expect(res.Final.Step).To(Equal(10))
		})
	})
})
