// Package ecs bridges replay sprite lifecycles into a [Donburi] world.
//
// [NewDonburiSink] returns a replay.EventSink that mirrors every live custom
// and native sprite instance as an entity carrying a [SpriteData]
// component, and publishes each creation and removal as a
// [LifecycleEventType] event for ECS systems to consume.
//
// Usage:
//
//	world := donburi.NewWorld()
//	sink := ecs.NewDonburiSink(world)
//	engine, err := replay.New(root, platform, replay.Options{Events: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
