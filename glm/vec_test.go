package glm

import "testing"

func TestFlatten(t *testing.T) {
	vecs := []Vec3f{{0, 1, 0}, {-1, -1, 0}, {1, -1, 0}}
	flat := Flatten(vecs)

	want := []float32{0, 1, 0, -1, -1, 0, 1, -1, 0}
	if len(flat) != len(want) {
		t.Fatalf("len(Flatten()) = %d, want %d", len(flat), len(want))
	}

	for idx := range want {
		if flat[idx] != want[idx] {
			t.Errorf("Flatten()[%d] = %v, want %v", idx, flat[idx], want[idx])
		}
	}
}

func TestVec4XYZW(t *testing.T) {
	x, y, z, w := Vec4f{1, 2, 3, 4}.XYZW()
	if x != 1 || y != 2 || z != 3 || w != 4 {
		t.Errorf("XYZW() = %v, %v, %v, %v", x, y, z, w)
	}
}
