package prodcons

// consume receives items until the deadline.
func (x *worker) consume() error {
	cfg := &x.state.cfg
	for {
		if err := x.checkDeadline(); err != nil {
			return err
		}
		if err := x.armItem(); err != nil {
			return err
		}
		v, popped, err := x.tryPop()
		if err != nil {
			return err
		}
		if !popped {
			x.logWait(`empty buffer, waiting`)
			if err := x.awaitItem(); err != nil {
				return err
			}
			continue
		}
		x.log.Debug().Int(`item`, v).Log(`received`)
		x.pause(cfg.ConsumeDelay())
	}
}
