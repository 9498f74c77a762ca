package glm

type Vec3[T numeric] [3]T

// Flatten appends the components of all vectors to a single slice.
// The result has exactly 3*len(vecs) elements.
func Flatten[T numeric](vecs []Vec3[T]) []T {
	result := make([]T, 0, len(vecs)*3)
	for _, vec := range vecs {
		result = append(result, vec[0], vec[1], vec[2])
	}

	return result
}
