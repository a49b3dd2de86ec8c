package main

import (
	"flag"
	"os"

	"github.com/akmonengine/gimbal"
	"github.com/akmonengine/gimbal/config"
	"github.com/akmonengine/gimbal/persist"
	"github.com/akmonengine/gimbal/rigidbody"
	"github.com/akmonengine/gimbal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

const dt = 1.0 / 60.0

// SetupScene creates a ground plane, a camera looking at the drop zone and
// one falling crate per slot, each scene object following its rigid body
func SetupScene(cfg config.Configuration, crates int) (*gimbal.World, *rigidbody.Manager, *scene.Scene, *scene.Camera, error) {
	world := gimbal.NewWorld(cfg.Physics)
	if _, err := world.AddPlane(mgl64.Vec3{0, 1, 0}, 0, cfg.RigidBody.Restitution, cfg.RigidBody.Friction); err != nil {
		return nil, nil, nil, nil, err
	}
	manager := rigidbody.NewManager(world, cfg.RigidBody)
	s := scene.New()

	cam := s.CreateCamera()
	cam.SetPositionXYZ(0, 8, -20)
	if err := cam.PointAt(mgl64.Vec3{0, 2, 0}); err != nil {
		return nil, nil, nil, nil, err
	}

	crate, err := s.CreateBox("crate", mgl64.Vec3{0.5, 0.5, 0.5})
	if err != nil {
		return nil, nil, nil, nil, err
	}

	for i := 0; i < crates; i++ {
		object := s.CreateObject()
		object.SetName("crate")
		object.SetGeometry(crate)

		rb := manager.NewRigidBody()
		err := rb.Create(rigidbody.CreateInfo{
			Shape:           rigidbody.ShapeCube,
			Mass:            1,
			Dimensions:      mgl64.Vec3{0.5, 0.5, 0.5},
			InitialPosition: mgl64.Vec3{float64(i%5)*2 - 4, 4 + float64(i/5)*2, 0},
			InitialRotation: mgl64.QuatRotate(mgl64.DegToRad(float64(i)*15), mgl64.Vec3{0, 0, 1}),
		}, true)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		rb.Bind(object, object)
		// the rigid body holds its own reference now
		object.RemoveReference()
	}

	return world, manager, s, cam, nil
}

func save(path string, manager *rigidbody.Manager) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := persist.NewWriter(f)
	if err != nil {
		return err
	}
	var saveErr error
	manager.Each(func(rb *rigidbody.RigidBody) {
		if saveErr == nil {
			saveErr = rb.Save(w)
		}
	})
	if saveErr != nil {
		return saveErr
	}

	return w.Close()
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	steps := flag.Int("steps", 300, "number of simulation steps")
	crates := flag.Int("crates", 10, "number of falling crates")
	savePath := flag.String("save", "", "write the rigid bodies to this file at the end")
	flag.Parse()

	if err := config.LoadEnv(".env"); err != nil {
		log.WithError(err).Fatal("cannot read .env")
	}
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.WithError(err).Fatal("cannot load configuration")
		}
	}
	if err := cfg.SetupLogger(); err != nil {
		log.WithError(err).Fatal("invalid log configuration")
	}

	world, manager, s, cam, err := SetupScene(cfg, *crates)
	if err != nil {
		log.WithError(err).Fatal("cannot setup the scene")
	}

	landed := 0
	world.Events.Subscribe(gimbal.COLLISION_ENTER, func(event gimbal.Event) {
		landed++
	})
	sleeping := 0
	world.Events.Subscribe(gimbal.ON_SLEEP, func(event gimbal.Event) { sleeping++ })
	world.Events.Subscribe(gimbal.ON_WAKE, func(event gimbal.Event) { sleeping-- })

	bar := progressbar.Default(int64(*steps), "simulating")
	for i := 0; i < *steps; i++ {
		world.Step(dt)
		manager.Update(dt)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	log.WithFields(log.Fields{
		"landed":   landed,
		"sleeping": sleeping,
		"visible":  len(s.Visible(cam)),
		"bodies":   manager.Len(),
	}).Info("simulation done")

	if *savePath != "" {
		if err := save(*savePath, manager); err != nil {
			log.WithError(err).Fatal("cannot save the rigid bodies")
		}
		log.WithField("path", *savePath).Info("rigid bodies saved")
	}
}
