package toolbox

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

// A network without hidden layers is logistic regression.  Online training
// must agree with a direct implementation of the same update.
func TestAgreesWithGoldenOnlineLogisticRegression(t *testing.T) {
	learningRate := float32(0.05)
	epochs := 50

	x, y := generate2DLogRegDataset(200)

	net := mustMakeNetwork(t, []int{2, 1}, Tanh, learningRate, 12345)

	m := &logRegModel{
		W0: net.Layers[0].W.At2(0, 0),
		W1: net.Layers[0].W.At2(1, 0),
		B:  net.Layers[0].B.At1(0),
	}

	for epoch := 0; epoch < epochs; epoch++ {
		for k := range y {
			xk := []float32{x[k*2+0], x[k*2+1]}
			if _, err := net.Train(xk, []float32{y[k]}); err != nil {
				t.Fatalf("Train: %v", err)
			}
			m.step(xk, y[k], learningRate)
		}
	}
	t.Logf("toolbox w0=%v w1=%v b=%v", net.Layers[0].W.At2(0, 0), net.Layers[0].W.At2(1, 0), net.Layers[0].B.At1(0))
	t.Logf("golden  w0=%v w1=%v b=%v", m.W0, m.W1, m.B)

	if math32.Abs(net.Layers[0].W.At2(0, 0)-m.W0) > 0.001 {
		t.Errorf("Disagreement on w0 parameter; got %v, want %v", net.Layers[0].W.At2(0, 0), m.W0)
	}
	if math32.Abs(net.Layers[0].W.At2(1, 0)-m.W1) > 0.001 {
		t.Errorf("Disagreement on w1 parameter; got %v, want %v", net.Layers[0].W.At2(1, 0), m.W1)
	}
	if math32.Abs(net.Layers[0].B.At1(0)-m.B) > 0.001 {
		t.Errorf("Disagreement on b parameter; got %v, want %v", net.Layers[0].B.At1(0), m.B)
	}

	numCorrect := 0
	for k := range y {
		p, _ := net.Predict([]float32{x[k*2+0], x[k*2+1]})
		if (p > 0.5) == (y[k] == 1) {
			numCorrect++
		}
	}
	if pct := float32(numCorrect) / float32(len(y)) * 100; pct < 90 {
		t.Errorf("logistic regression only classified %.1f%% of a separable set", pct)
	}
}

type logRegModel struct {
	W0, W1 float32
	B      float32
}

func (m *logRegModel) step(x []float32, y, learningRate float32) {
	pred := 1 / (1 + math32.Exp(-(m.W0*x[0] + m.W1*x[1] + m.B)))
	m.W0 -= learningRate * (pred - y) * x[0]
	m.W1 -= learningRate * (pred - y) * x[1]
	m.B -= learningRate * (pred - y)
}

// Points in [-1, 1)^2 labeled by which side of the line x1 = 0.5*x0 + 0.1
// they fall on.
func generate2DLogRegDataset(m int) (x, y []float32) {
	r := rand.New(rand.NewSource(12345))

	x = make([]float32, 2*m)
	y = make([]float32, m)

	for k := 0; k < m; k++ {
		x0 := r.Float32()*2 - 1
		x1 := r.Float32()*2 - 1
		if x1 > 0.5*x0+0.1 {
			y[k] = 1
		}
		x[k*2+0] = x0
		x[k*2+1] = x1
	}

	return x, y
}
