package prodcons

// work repeatedly attempts to acquire a semaphore permit, without blocking,
// until the deadline, simulating work while admitted.
func (x *worker) work() error {
	s := x.state
	for {
		if err := x.checkDeadline(); err != nil {
			return err
		}
		ok, err := s.sem.TryAcquire()
		if err != nil {
			return err
		}
		if !ok {
			s.cfg.Metrics.Waited(s.strategy.String(), x.role.String(), `permit`)
			x.pause(s.cfg.SemaphoreRetry)
			continue
		}
		if err := x.admitted(); err != nil {
			return err
		}
	}
}

// admitted runs while holding exactly one permit, which is always released.
func (x *worker) admitted() (err error) {
	s := x.state
	defer func() {
		if releaseErr := s.sem.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	// logged while holding counterMu, so the order of the events is
	// consistent with the counter
	s.counterMu.Lock()
	s.counter--
	s.active++
	s.admissions++
	s.maxActive = max(s.maxActive, s.active)
	x.log.Info().Int(`counter`, s.counter).Log(`starting to work`)
	s.counterMu.Unlock()

	s.cfg.Metrics.Admitted(s.strategy.String(), 1)

	defer func() {
		s.cfg.Metrics.Admitted(s.strategy.String(), -1)

		s.counterMu.Lock()
		s.counter++
		s.active--
		x.log.Info().Int(`counter`, s.counter).Log(`releasing`)
		s.counterMu.Unlock()
	}()

	x.pause(s.cfg.WorkDelay())

	return nil
}
