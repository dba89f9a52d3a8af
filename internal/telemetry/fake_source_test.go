package telemetry

// fakeSource is a hand-rolled rawSource double. Each slice is a sequence of
// readings returned on successive calls; once exhausted the last entry
// repeats, so a two-call test can seed a baseline and then observe a delta.
type fakeSource struct {
	numCPU int

	aggCPU  []cpuTimes
	perCore [][]cpuTimes
	memPct  []float64

	diskRead  []uint64
	diskWrite []uint64
	netRecv   []uint64
	netSent   []uint64

	procs   [][]procInfo
	thermal []thermalReading

	aggIdx, coreIdx, memIdx           int
	diskReadIdx, diskWriteIdx         int
	netRecvIdx, netSentIdx            int
	procIdx                           int

	diskErr, netErr, memErr, procErr error
}

func (f *fakeSource) NumCPU() int {
	if f.numCPU <= 0 {
		return 1
	}
	return f.numCPU
}

func pop[T any](s []T, idx *int) T {
	if len(s) == 0 {
		var zero T
		return zero
	}
	i := *idx
	if i >= len(s) {
		i = len(s) - 1
	}
	v := s[i]
	*idx++
	return v
}

func (f *fakeSource) AggregateCPUTimes() (cpuTimes, error) {
	return pop(f.aggCPU, &f.aggIdx), nil
}

func (f *fakeSource) PerCoreCPUTimes() ([]cpuTimes, error) {
	return pop(f.perCore, &f.coreIdx), nil
}

func (f *fakeSource) Memory() (float64, error) {
	if f.memErr != nil {
		return 0, f.memErr
	}
	return pop(f.memPct, &f.memIdx), nil
}

func (f *fakeSource) DiskIO() (uint64, uint64, error) {
	if f.diskErr != nil {
		return 0, 0, f.diskErr
	}
	return pop(f.diskRead, &f.diskReadIdx), pop(f.diskWrite, &f.diskWriteIdx), nil
}

func (f *fakeSource) NetIO() (uint64, uint64, error) {
	if f.netErr != nil {
		return 0, 0, f.netErr
	}
	return pop(f.netRecv, &f.netRecvIdx), pop(f.netSent, &f.netSentIdx), nil
}

func (f *fakeSource) Processes() ([]procInfo, error) {
	if f.procErr != nil {
		return nil, f.procErr
	}
	return pop(f.procs, &f.procIdx), nil
}

func (f *fakeSource) Thermal() ([]thermalReading, error) {
	return f.thermal, nil
}
