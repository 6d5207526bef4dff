package system

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/ik"
	"github.com/lixenwraith/vi-rig/skeleton"
	"github.com/lixenwraith/vi-rig/status"
	"github.com/lixenwraith/vi-rig/syncreport"
	"github.com/lixenwraith/vi-rig/vmath"
)

func testDefs(t *testing.T) *skeleton.Registry {
	t.Helper()
	tank, err := skeleton.NewDefinition("tank", []skeleton.BoneDef{
		{Name: "hull"},
		{Name: "turret", Parent: "hull", Rest: vmath.Translation(vmath.V3FromInt(0, 0, 2))},
		{Name: "barrel", Parent: "turret", Rest: vmath.Translation(vmath.V3FromInt(1, 0, 0))},
		{Name: "muzzle", Parent: "barrel", Rest: vmath.Translation(vmath.V3FromInt(3, 0, 0))},
		{Name: "hook", Parent: "hull", Rest: vmath.Translation(vmath.V3FromInt(0, 0, 5))},
	}, nil)
	if err != nil {
		t.Fatalf("tank definition: %v", err)
	}
	crate, err := skeleton.NewDefinition("crate", []skeleton.BoneDef{{Name: "root"}}, nil)
	if err != nil {
		t.Fatalf("crate definition: %v", err)
	}
	reg := skeleton.NewRegistry()
	for _, d := range []*skeleton.Definition{tank, crate} {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Image(), err)
		}
	}
	reg.Freeze()
	return reg
}

// newWorld builds a world with the logic systems registered out of order
func newWorld(t *testing.T) *engine.World {
	t.Helper()
	w := engine.NewWorld(testDefs(t), status.NewRegistry(), zerolog.Nop())
	w.AddSystem(NewAttachSystem())
	w.AddSystem(NewSkeletonSystem())
	return w
}

func spawn(t *testing.T, w *engine.World, name, image string, pos vmath.Vec3) *engine.Actor {
	t.Helper()
	a := engine.NewActor(name, pos)
	if _, err := engine.NewSkeletonOwner(a, engine.OwnerConfig{Image: image}, w.Skeletons, zerolog.Nop(), engine.WithStatus(w.Status)); err != nil {
		t.Fatalf("owner for %s: %v", name, err)
	}
	w.AddActor(a)
	return a
}

func armTank(t *testing.T, a *engine.Actor) {
	t.Helper()
	cfg := ik.DefaultConfig()
	cfg.Speed = 64
	if _, err := engine.NewTurret(a, engine.TurretConfig{Name: "main", TurretBone: "turret", BarrelBone: "barrel", Turret: cfg, Barrel: cfg}); err != nil {
		t.Fatalf("NewTurret: %v", err)
	}
	if _, err := engine.NewArmament(a, engine.ArmamentConfig{
		Name: "gun", Turret: "main", MuzzleBones: []string{"muzzle"},
		ReloadTicks: 5, Range: vmath.FromInt(500), FacingTolerance: 2,
	}); err != nil {
		t.Fatalf("NewArmament: %v", err)
	}
}

func TestSystemOrder(t *testing.T) {
	w := newWorld(t)
	w.AddSystem(NewRenderSystem(w, 128))
	w.AddSystem(NewSyncSystem(w, nil, 1))
	w.AddSystem(NewArmamentSystem(w))

	want := []string{"skeleton", "attach", "armament", "sync", "render"}
	got := w.Systems()
	if len(got) != len(want) {
		t.Fatalf("%d systems, want %d", len(got), len(want))
	}
	for i, s := range got {
		n, ok := s.(interface{ Name() string })
		if !ok || n.Name() != want[i] {
			t.Errorf("system %d is %v, want %s", i, s, want[i])
		}
	}
}

func TestArmamentSystemEngages(t *testing.T) {
	w := newWorld(t)
	arms := NewArmamentSystem(w)
	w.AddSystem(arms)
	tank := spawn(t, w, "tank", "tank", vmath.Vec3{})
	armTank(t, tank)

	var fired []FiredShot
	arms.OnFire(func(s FiredShot) { fired = append(fired, s) })

	for range 5 {
		w.Tick()
	}
	if len(fired) != 0 {
		t.Fatalf("fired %d shots without an order", len(fired))
	}

	tank.SetTarget(vmath.V3FromInt(0, 100, 2))
	for range 20 {
		w.Tick()
	}
	if len(fired) == 0 {
		t.Fatal("no shots after 20 ticks on target")
	}
	if fired[0].Actor != tank || fired[0].Armament.Name() != "gun" {
		t.Errorf("shot from %s/%s", fired[0].Actor.Name, fired[0].Armament.Name())
	}
	// Reload of 5 ticks bounds the rate
	if len(fired) > 4 {
		t.Errorf("%d shots in 20 ticks with a 5 tick reload", len(fired))
	}
	if got := w.Status.Ints.Get(status.ArmamentShots).Load(); got != int64(len(fired)) {
		t.Errorf("shot counter %d, want %d", got, len(fired))
	}

	tank.ClearTarget()
	w.Tick()
	if len(arms.Shots()) != 0 {
		t.Errorf("shots recorded after the order was cleared")
	}

	arms.SetEnabled(false)
	tank.SetTarget(vmath.V3FromInt(0, 100, 2))
	before := len(fired)
	for range 10 {
		w.Tick()
	}
	if len(fired) != before {
		t.Error("disabled system fired")
	}
}

func TestAttachSystemCarries(t *testing.T) {
	w := newWorld(t)
	truck := spawn(t, w, "truck", "tank", vmath.V3FromInt(10, 0, 0))
	crate := spawn(t, w, "crate", "crate", vmath.Vec3{})
	ap, err := engine.NewAttachPoint(truck, engine.AttachPointConfig{Name: "hook", Bone: "hook"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAttachPoint: %v", err)
	}
	w.Tick()
	if !ap.Attach(crate) {
		t.Fatal("attach refused")
	}

	truck.Position = vmath.V3FromInt(20, 0, 0)
	w.Tick()
	want := vmath.V3FromInt(20, 0, 5)
	if d := vmath.V3Dist(crate.Position, want); d > 1<<12 {
		t.Errorf("crate at %+v, want %+v", crate.Position, want)
	}
}

func buildScene(t *testing.T) (*engine.World, *engine.Actor) {
	t.Helper()
	w := newWorld(t)
	w.AddSystem(NewArmamentSystem(w))
	tank := spawn(t, w, "tank", "tank", vmath.V3FromInt(3, 4, 0))
	armTank(t, tank)
	spawn(t, w, "crate", "crate", vmath.V3FromInt(-5, 0, 0))
	tank.SetTarget(vmath.V3FromInt(50, 50, 10))
	return w, tank
}

func TestChecksumDeterministic(t *testing.T) {
	w1, _ := buildScene(t)
	w2, tank2 := buildScene(t)
	h := syncreport.NewHasher()

	for range 10 {
		w1.Tick()
		w2.Tick()
	}
	a, n := Checksum(w1, h)
	b, _ := Checksum(w2, h)
	if a != b {
		t.Fatalf("identical runs diverged: %x vs %x", a, b)
	}
	if n != 2 {
		t.Errorf("hashed %d actors, want 2", n)
	}

	tank2.Position = vmath.V3FromInt(3, 5, 0)
	w1.Tick()
	w2.Tick()
	a, _ = Checksum(w1, h)
	b, _ = Checksum(w2, h)
	if a == b {
		t.Error("moved actor did not change the checksum")
	}
}

func TestSyncSystemRecords(t *testing.T) {
	store, err := syncreport.Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	w, _ := buildScene(t)
	sync := NewSyncSystem(w, store, 2)
	w.AddSystem(sync)
	for range 6 {
		w.Tick()
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("%d records over 6 ticks every 2, want 3", count)
	}
	sum, ok, err := store.Checksum(6)
	if err != nil || !ok {
		t.Fatalf("tick 6 not stored: %v %v", ok, err)
	}
	if sum != sync.LastChecksum() {
		t.Errorf("stored %x, last %x", sum, sync.LastChecksum())
	}
	if _, ok, _ := store.Checksum(5); ok {
		t.Error("odd tick stored")
	}
	if got := w.Status.Ints.Get(status.SyncRecords).Load(); got != 3 {
		t.Errorf("record counter %d, want 3", got)
	}
}

// A modifier bound straight to a bone must advance the same way whether or
// not the checksum recorder reads bones on that tick
func TestSyncCadenceLeavesModifiersAlone(t *testing.T) {
	run := func(every int) vmath.Angle {
		w := newWorld(t)
		w.AddSystem(NewSyncSystem(w, nil, every))
		tank := spawn(t, w, "tank", "tank", vmath.Vec3{})
		body := tank.Main()

		yaw, err := ik.NewTurret(ik.DefaultConfig())
		if err != nil {
			t.Fatalf("NewTurret: %v", err)
		}
		if err := body.RegisterBonePoseModifier(body.MustBoneId("turret"), yaw); err != nil {
			t.Fatalf("register: %v", err)
		}
		yaw.FaceTarget(vmath.V3FromInt(0, 10, 0))
		for range 20 {
			w.Tick()
		}
		return yaw.Current()
	}

	every, rare := run(1), run(1000)
	if every != rare {
		t.Fatalf("checksum cadence changed the aim: %d with every tick, %d with every 1000", every, rare)
	}
	if every == 0 {
		t.Error("modifier never advanced")
	}
}

func TestRenderSystemFillsBatch(t *testing.T) {
	w := newWorld(t)
	render := NewRenderSystem(w, 1024)
	w.AddSystem(render)
	tank := spawn(t, w, "tank", "tank", vmath.Vec3{})
	crate := spawn(t, w, "crate", "crate", vmath.Vec3{})

	w.Frame(0)
	if render.Batch().Instances() != 0 {
		t.Errorf("%d instances before the first tick", render.Batch().Instances())
	}

	w.Tick()
	w.Frame(0.5)
	if render.Batch().Instances() != 2 {
		t.Fatalf("%d instances, want 2", render.Batch().Instances())
	}
	// 5 tank bones of 12 floats each come first
	if got := tank.Main().DrawToken(render.Batch()); got != 0 {
		t.Errorf("tank token %d, want 0", got)
	}
	if got := crate.Main().DrawToken(render.Batch()); got != 15 {
		t.Errorf("crate token %d, want 15", got)
	}
	if got := w.Status.Ints.Get(status.RenderInstances).Load(); got != 2 {
		t.Errorf("instance gauge %d, want 2", got)
	}
}

func TestRenderSystemOverflow(t *testing.T) {
	w := newWorld(t)
	render := NewRenderSystem(w, 64)
	w.AddSystem(render)
	spawn(t, w, "tank", "tank", vmath.Vec3{})
	crate := spawn(t, w, "crate", "crate", vmath.Vec3{})

	w.Tick()
	w.Frame(1)
	w.Frame(1)
	// Tank needs 60 floats; the crate no longer fits
	if render.Batch().Instances() != 1 {
		t.Errorf("%d instances, want 1", render.Batch().Instances())
	}
	if got := crate.Main().DrawToken(render.Batch()); got != skeleton.InvalidDrawToken {
		t.Errorf("overflowed crate has token %d", got)
	}
	if got := w.Status.Ints.Get(status.RenderOverflow).Load(); got != 2 {
		t.Errorf("overflow counter %d, want 2", got)
	}
}
