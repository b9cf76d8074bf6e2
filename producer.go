package prodcons

// produce sends the items 1 to TotalTasks, in order, exiting early on the
// deadline.
func (x *worker) produce() error {
	cfg := &x.state.cfg
	for i := 1; i <= cfg.TotalTasks; i++ {
		x.pause(cfg.ProduceDelay())
		for {
			if err := x.checkDeadline(); err != nil {
				return err
			}
			if err := x.armSpace(); err != nil {
				return err
			}
			pushed, err := x.tryPush(i)
			if err != nil {
				return err
			}
			if pushed {
				x.log.Debug().Int(`item`, i).Log(`sent`)
				break
			}
			x.logWait(`full buffer, waiting`)
			if err := x.awaitSpace(); err != nil {
				return err
			}
		}
	}
	x.log.Info().Int(`total_tasks`, cfg.TotalTasks).Log(`tasks finished`)
	return nil
}
