package glm

type Vec3f = Vec3[float32]
type Vec4f = Vec4[float32]
