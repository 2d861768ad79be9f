// Package scene holds the immutable scene the generator samples into: the
// placed objects, the fixed camera, and the pose applied to the target.
package scene

import (
	"errors"
	"fmt"
	"image"

	"synthdet/internal/mathutil"
	"synthdet/internal/model"
)

var (
	// ErrObjectNotFound is returned when a named object is absent from the scene.
	ErrObjectNotFound = errors.New("scene: object not found")
	// ErrNoCamera is returned when the scene has no camera.
	ErrNoCamera = errors.New("scene: no camera")
)

// Pose is a placement for an object: world position plus Euler XYZ rotation in radians.
type Pose struct {
	Position mathutil.Vec3 `json:"position"`
	Rotation mathutil.Vec3 `json:"rotation"`
}

// Matrix returns the world transform T · Rz · Ry · Rx for the pose.
func (p Pose) Matrix() mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.EulerXYZ(p.Rotation), p.Position)
}

// Object is a model instance placed in the world.
type Object struct {
	Name    string
	Model   *model.Model
	Texture *image.NRGBA // nil renders mesh base colors
	World   mathutil.Mat4
}

// WithPose returns a copy of o whose world transform is replaced by p.
func (o Object) WithPose(p Pose) Object {
	o.World = p.Matrix()
	return o
}

func (o Object) WorldMatrix() mathutil.Mat4 { return o.World }

// BoundCorners returns the 8 local-space bound corners of the object's model.
func (o Object) BoundCorners() [8]mathutil.Vec3 {
	if o.Model == nil {
		return [8]mathutil.Vec3{}
	}
	return o.Model.BoundCorners()
}

// Scene is a value: modifying methods return a new Scene.
type Scene struct {
	Objects []Object
	Cam     *Camera
}

// Object returns the object with the given name.
func (s Scene) Object(name string) (Object, error) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, nil
		}
	}
	return Object{}, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
}

// Camera returns the scene camera.
func (s Scene) Camera() (Camera, error) {
	if s.Cam == nil {
		return Camera{}, ErrNoCamera
	}
	return *s.Cam, nil
}

// WithObject returns a copy of s in which the object named o.Name is replaced by o.
// If no object has that name, o is appended.
func (s Scene) WithObject(o Object) Scene {
	objs := make([]Object, len(s.Objects), len(s.Objects)+1)
	copy(objs, s.Objects)
	for i := range objs {
		if objs[i].Name == o.Name {
			objs[i] = o
			return Scene{Objects: objs, Cam: s.Cam}
		}
	}
	return Scene{Objects: append(objs, o), Cam: s.Cam}
}
