package body_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/shape"
	"github.com/san-kum/subsim/internal/vec"
)

var _ = Describe("Body motion", func() {
	var (
		b    *body.Body
		hull shape.Shape
	)

	BeforeEach(func() {
		hull = shape.Cylinder(100, 5)
		var err error
		b, err = body.New(hull, 1, body.Pose{Position: vec.XZ{Z: 150}})
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Attach(physics.NewPropeller("prop", vec.XZ{X: -50}, math.Pi))).To(Succeed())
	})

	Context("without drag", func() {
		It("moves forward after a single thrust tick", func() {
			pose, err := b.Tick(1, 2, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Velocity().X).To(BeNumerically(">", 0))
			Expect(b.Velocity().X).To(BeNumerically("~", 2/b.Mass(), 1e-12))
			Expect(b.Velocity().Z).To(BeNumerically("~", 0, 1e-12))
			Expect(pose.Position.X).To(BeNumerically(">", 0))
			Expect(pose.Position.Z).To(BeNumerically("~", 150, 1e-9))
		})

		It("keeps a constant velocity with no net force", func() {
			Expect(b.Detach("prop")).To(BeTrue())
			b, _ = body.New(hull, 1, body.Pose{}, body.WithVelocity(vec.XZ{X: 0.5, Z: 0.25}))

			for i := 0; i < 100; i++ {
				_, err := b.Tick(0.5, 0, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(b.Velocity()).To(Equal(vec.XZ{X: 0.5, Z: 0.25}))
			}
			Expect(b.Pose().Position.X).To(BeNumerically("~", 25, 1e-9))
			Expect(b.Pose().Position.Z).To(BeNumerically("~", 12.5, 1e-9))
		})
	})

	Context("with hull drag", func() {
		var terminal float64

		BeforeEach(func() {
			capability := shape.Drag{Coefficient: physics.DefaultDragCoefficient}
			d, err := physics.NewDrag("hull", shape.At(hull, vec.XZ{}, 0), capability)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Attach(d)).To(Succeed())

			// end-on, only the cap faces the flow
			area := 5 * math.Pi
			k := 0.5 * physics.SeawaterDensity * capability.Coefficient * area
			terminal = math.Sqrt(2 / k)
		})

		It("converges to the speed where thrust equals drag", func() {
			for i := 0; i < 3000; i++ {
				_, err := b.Tick(1, 2, nil)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(b.Velocity().X).To(BeNumerically("~", terminal, terminal*1e-3))

			var net float64
			for _, l := range b.Loads() {
				net += l.Force.X
			}
			Expect(net).To(BeNumerically("~", 0, 1e-3))
		})

		It("accelerates monotonically toward terminal speed", func() {
			prev := 0.0
			for i := 0; i < 200; i++ {
				_, err := b.Tick(1, 2, nil)
				Expect(err).NotTo(HaveOccurred())
				v := b.Velocity().X
				Expect(v).To(BeNumerically(">=", prev))
				Expect(v).To(BeNumerically("<=", terminal*(1+1e-9)))
				prev = v
			}
		})
	})

	Context("with neutral ballast", func() {
		It("holds depth when buoyancy cancels weight", func() {
			b, _ = body.New(hull, 1, body.Pose{Position: vec.XZ{Z: 150}})
			Expect(b.Attach(physics.Weight{})).To(Succeed())

			m := b.Medium()
			water := m.WaterDensity(150)
			tankVolume := 10.0
			// ρ·V = mass
			air := (water - b.Mass()/tankVolume) / (water - m.AirDensity)
			tank, err := physics.NewBallast("main", shape.At(shape.Line(tankVolume), vec.XZ{}, 0), shape.Buoyancy{AirFraction: air})
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Attach(tank)).To(Succeed())

			for i := 0; i < 100; i++ {
				_, err := b.Tick(0.1, 0, nil)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(b.Depth()).To(BeNumerically("~", 150, 1e-6))
		})

		It("rises when the tank displaces more than the hull weighs", func() {
			b, _ = body.New(hull, 1, body.Pose{Position: vec.XZ{Z: 150}})
			Expect(b.Attach(physics.Weight{})).To(Succeed())
			tank, _ := physics.NewBallast("main", shape.At(shape.Cylinder(20, 20), vec.XZ{}, 0), shape.Buoyancy{AirFraction: 0})
			Expect(b.Attach(tank)).To(Succeed())

			_, err := b.Tick(1, 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Velocity().Z).To(BeNumerically("<", 0))
		})
	})
})
